package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/deemkeen/bnotas/domain"
	"github.com/go-chi/chi/v5"
)

const fakeToken = "tok-123"

// fakeBackend is an in-memory BnotasWeb service.
type fakeBackend struct {
	mu       sync.Mutex
	notes    []map[string]any
	nextId   int64
	lastBody map[string]any
	resets   []resetRequest
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	f := &fakeBackend{nextId: 1}

	r := chi.NewRouter()
	r.Route("/usuarios", func(r chi.Router) {
		r.Post("/login", f.login)
		r.Post("/register", f.register)
		r.Post("/forgot-password", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/reset-password", f.resetPassword)
	})
	r.Route("/anotacoes", func(r chi.Router) {
		r.Use(f.requireToken)
		r.Get("/", f.list)
		r.Post("/", f.create)
		r.Put("/{id}", f.update)
		r.Delete("/{id}", f.delete)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fakeToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token inválido"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.Email != "bruna@example.com" || req.Password != "Abcdef1!" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{"message": "Credenciais inválidas"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": fakeToken,
		"user":  map[string]any{"id": 7, "email": req.Email, "nome": "Bruna"},
	})
}

func (f *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.lastBody = body
	f.mu.Unlock()
	if body["email"] == "taken@example.com" {
		writeJSON(w, http.StatusConflict, map[string]any{"error": map[string]any{"message": "E-mail já cadastrado"}})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": 8})
}

func (f *fakeBackend) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	f.resets = append(f.resets, req)
	f.mu.Unlock()
	if req.Token != "good" {
		// no JSON body at all
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.notes)
}

func (f *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastBody = body
	body["id"] = f.nextId
	body["dataCriacao"] = "2025-06-10T12:00:00.000Z"
	f.nextId++
	f.notes = append(f.notes, body)
	writeJSON(w, http.StatusCreated, body)
}

func (f *fakeBackend) find(r *http.Request) (int, map[string]any) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	for i, n := range f.notes {
		if toInt64(n["id"]) == id {
			return i, n
		}
	}
	return -1, nil
}

func (f *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastBody = body
	_, note := f.find(r)
	if note == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for k, v := range body {
		note[k] = v
	}
	writeJSON(w, http.StatusOK, note)
}

func (f *fakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, note := f.find(r)
	if note == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Anotação não encontrada"})
		return
	}
	f.notes = append(f.notes[:i], f.notes[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

// memStore is a SessionStore kept in a map.
type memStore struct {
	sessions map[string]*domain.AuthSession
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*domain.AuthSession{}}
}

func (m *memStore) SaveSession(deviceKey string, s *domain.AuthSession) error {
	m.sessions[deviceKey] = s
	return nil
}

func (m *memStore) ReadSession(deviceKey string) (*domain.AuthSession, error) {
	return m.sessions[deviceKey], nil
}

func (m *memStore) DeleteSession(deviceKey string) error {
	delete(m.sessions, deviceKey)
	return nil
}
