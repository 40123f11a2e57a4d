package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/deemkeen/bnotas/domain"
)

var (
	ErrNotLoggedIn  = errors.New("sessão expirada, faça login novamente")
	ErrNoteNotFound = errors.New("nota não encontrada")
)

// SessionStore persists the auth session of a device between runs.
type SessionStore interface {
	SaveSession(deviceKey string, s *domain.AuthSession) error
	ReadSession(deviceKey string) (*domain.AuthSession, error)
	DeleteSession(deviceKey string) error
}

// APIError is a non-2xx answer of the notes service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the BnotasWeb REST API on behalf of one device. It owns
// the bearer token: restored from the store, set on login, cleared on logout.
type Client struct {
	baseURL   string
	http      *http.Client
	store     SessionStore
	deviceKey string

	mu      sync.RWMutex
	session *domain.AuthSession
}

// New returns a client for baseURL. store may be nil, the session then only
// lives in memory.
func New(baseURL string, store SessionStore, deviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		store:     store,
		deviceKey: deviceKey,
	}
}

// Restore loads the persisted session of the device, if any.
func (c *Client) Restore() (*domain.AuthSession, error) {
	if c.store == nil {
		return nil, nil
	}
	s, err := c.store.ReadSession(c.deviceKey)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if s.Valid() {
		c.setSession(s)
	}
	return c.Session(), nil
}

// UseSession sets the session for this client only, without persisting it.
func (c *Client) UseSession(s *domain.AuthSession) {
	c.setSession(s)
}

func (c *Client) setSession(s *domain.AuthSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Session is the current session or nil when logged out.
func (c *Client) Session() *domain.AuthSession {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) LoggedIn() bool {
	return c.Session().Valid()
}

func (c *Client) DeviceKey() string {
	return c.deviceKey
}

// do sends body as JSON and decodes a 2xx answer into out. Any other status
// becomes an *APIError carrying the server message or fallback.
func (c *Client) do(ctx context.Context, method, path string, auth bool, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth {
		session := c.Session()
		if !session.Valid() {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("%s %s failed: %v", method, path, err)
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody, fallback)}
		log.Printf("%s %s returned %d: %s", method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", fallback, err)
	}
	return nil
}

// errorMessage extracts {"error":{"message"}}, {"error":"..."} or
// {"message"} from an error body.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	if len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if json.Unmarshal(payload.Error, &flat) == nil && flat != "" {
			return flat
		}
	}
	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}
