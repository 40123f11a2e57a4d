package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/deemkeen/bnotas/domain"
)

// Login exchanges credentials for a token and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := loginRequest{Email: strings.TrimSpace(email), Password: password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/usuarios/login", false, body, &resp, "Erro ao fazer login"); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "Erro ao fazer login"}
	}

	s := &domain.AuthSession{Token: resp.Token, User: resp.User.toDomain()}
	c.setSession(s)
	if c.store != nil {
		if err := c.store.SaveSession(c.deviceKey, s); err != nil {
			// the session still works for this run
			log.Printf("Could not persist session for %s: %v", c.deviceKey, err)
		}
	}
	return s, nil
}

// Register creates an account. The registration must already be validated.
func (c *Client) Register(ctx context.Context, r domain.Registration) error {
	body := registerRequest{
		Name:     strings.TrimSpace(r.Name),
		Surname:  strings.TrimSpace(r.Surname),
		Phone:    strings.TrimSpace(r.Phone),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
	}
	return c.do(ctx, http.MethodPost, "/usuarios/register", false, body, nil, "Erro ao cadastrar")
}

// ForgotPassword asks the service to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := forgotRequest{Email: strings.TrimSpace(email)}
	return c.do(ctx, http.MethodPost, "/usuarios/forgot-password", false, body, nil, "Erro ao enviar link")
}

// ResetPassword sets a new password using the token from the reset link.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrMissingResetToken
	}
	body := resetRequest{Token: token, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, "/usuarios/reset-password", false, body, nil, "Erro ao alterar senha")
}

// Logout forgets the session locally and in the store.
func (c *Client) Logout() error {
	c.setSession(nil)
	if c.store == nil {
		return nil
	}
	return c.store.DeleteSession(c.deviceKey)
}
