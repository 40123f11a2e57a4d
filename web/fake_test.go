package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/deemkeen/bnotas/db"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/util"
	"github.com/go-chi/chi/v5"
)

const backendToken = "tok-web"

// fakeNotesAPI serves the few endpoints the web server calls.
type fakeNotesAPI struct {
	mu     sync.Mutex
	notes  []map[string]any
	resets []map[string]string
}

func newFakeNotesAPI(t *testing.T, notes []map[string]any) (*fakeNotesAPI, *httptest.Server) {
	f := &fakeNotesAPI{notes: notes}

	r := chi.NewRouter()
	r.Post("/usuarios/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.resets = append(f.resets, body)
		f.mu.Unlock()
		if body["token"] != "good-token" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"message": "Token expirado"})
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/anotacoes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+backendToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.notes)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeNotesAPI) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resets)
}

func testConf(apiUrl string) *util.AppConfig {
	conf := &util.AppConfig{}
	conf.Conf.ApiUrl = apiUrl
	conf.Conf.Host = "localhost"
	conf.Conf.HttpPort = 9999
	conf.Conf.RequestTimeout = 5
	return conf
}

// setupSessions opens a temp store holding one logged in device and returns
// its feed token.
func setupSessions(t *testing.T) (*db.DB, string) {
	d, err := db.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	session := &domain.AuthSession{Token: backendToken, User: domain.User{Id: 1, Email: "bruna@example.com", Name: "Bruna"}}
	if err := d.SaveSession("device-1", session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	feedToken, err := d.ReadFeedToken("device-1")
	if err != nil {
		t.Fatalf("Failed to read feed token: %v", err)
	}
	return d, feedToken
}
