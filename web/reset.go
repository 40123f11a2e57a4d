package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/deemkeen/bnotas/api"
	"github.com/deemkeen/bnotas/domain"
	"github.com/gin-gonic/gin"
)

// PasswordResetter is the service call behind the reset form.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type resetPage struct {
	Title    string
	Token    string
	Disabled bool
	Error    string
	Success  string
	Criteria domain.PasswordCriteria
	Strength domain.PasswordStrength
}

func renderReset(c *gin.Context, status int, page resetPage) {
	page.Title = "Redefinir senha"
	c.HTML(status, "reset.html", page)
}

// HandleResetForm renders the form for the token in the query string. A
// missing token renders the form disabled.
func HandleResetForm(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		renderReset(c, http.StatusBadRequest, resetPage{Disabled: true, Error: domain.ErrMissingResetToken.Error()})
		return
	}
	renderReset(c, http.StatusOK, resetPage{Token: token})
}

// HandleResetSubmit validates the new password locally before calling the
// service.
func HandleResetSubmit(c *gin.Context, resetter PasswordResetter) {
	token := strings.TrimSpace(c.PostForm("token"))
	password := c.PostForm("password")
	confirm := c.PostForm("confirm")

	if token == "" {
		renderReset(c, http.StatusBadRequest, resetPage{Disabled: true, Error: domain.ErrMissingResetToken.Error()})
		return
	}

	page := resetPage{
		Token:    token,
		Criteria: domain.ValidatePassword(password),
		Strength: domain.GetPasswordStrength(password),
	}
	if password != confirm {
		page.Error = domain.ErrPasswordMismatch.Error()
		renderReset(c, http.StatusUnprocessableEntity, page)
		return
	}
	if !domain.IsStrongPassword(password) {
		page.Error = domain.ErrWeakPassword.Error()
		renderReset(c, http.StatusUnprocessableEntity, page)
		return
	}

	if err := resetter.ResetPassword(c.Request.Context(), token, password); err != nil {
		log.Printf("Password reset failed: %v", err)
		status := http.StatusBadGateway
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		page.Error = err.Error()
		renderReset(c, status, page)
		return
	}

	renderReset(c, http.StatusOK, resetPage{Disabled: true, Success: "Senha alterada com sucesso! Volte ao bnotas e faça login."})
}
