package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/deemkeen/bnotas/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type registerRequest struct {
	Name     string `json:"nome"`
	Surname  string `json:"sobrenome"`
	Phone    string `json:"telefone,omitempty"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type userJSON struct {
	Id      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"nome,omitempty"`
	Surname string `json:"sobrenome,omitempty"`
	Phone   string `json:"telefone,omitempty"`
}

func (u userJSON) toDomain() domain.User {
	return domain.User{Id: u.Id, Email: u.Email, Name: u.Name, Surname: u.Surname, Phone: u.Phone}
}

type noteJSON struct {
	Id              int64     `json:"id,omitempty"`
	Title           string    `json:"titulo"`
	Content         string    `json:"conteudo"`
	Favorite        bool      `json:"favorita"`
	Color           string    `json:"cor,omitempty"`
	CreatedAt       *wireTime `json:"dataCriacao,omitempty"`
	UpdatedAt       *wireTime `json:"dataModificacao,omitempty"`
	ReminderAt      *wireTime `json:"dataLembrete"`
	RescheduleCount *int      `json:"qtdReagendamentos,omitempty"`
}

func newNoteJSON(n domain.Note) noteJSON {
	out := noteJSON{
		Title:    n.Title,
		Content:  n.Content,
		Favorite: n.Favorite,
		Color:    n.Color,
	}
	if n.ReminderAt != nil {
		out.ReminderAt = &wireTime{*n.ReminderAt}
	}
	return out
}

func (n noteJSON) toDomain() domain.Note {
	note := domain.Note{
		Id:       n.Id,
		Title:    n.Title,
		Content:  n.Content,
		Favorite: n.Favorite,
		Color:    n.Color,
	}
	if n.CreatedAt != nil && !n.CreatedAt.IsZero() {
		note.CreatedAt = n.CreatedAt.Time
	}
	if n.UpdatedAt != nil && !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt.Time
		note.UpdatedAt = &t
	}
	if n.ReminderAt != nil && !n.ReminderAt.IsZero() {
		t := n.ReminderAt.Time
		note.ReminderAt = &t
	}
	if n.RescheduleCount != nil {
		note.RescheduleCount = *n.RescheduleCount
	}
	return note.WithDefaults()
}

// patchBody turns a NotePatch into the PUT body. Only set fields are sent;
// a cleared reminder is sent as an explicit null.
func patchBody(p domain.NotePatch) map[string]any {
	body := map[string]any{}
	if p.Title != nil {
		body["titulo"] = *p.Title
	}
	if p.Content != nil {
		body["conteudo"] = *p.Content
	}
	if p.Favorite != nil {
		body["favorita"] = *p.Favorite
	}
	if p.Color != nil {
		body["cor"] = *p.Color
	}
	switch {
	case p.ClearReminder:
		body["dataLembrete"] = nil
	case p.ReminderAt != nil:
		body["dataLembrete"] = wireTime{*p.ReminderAt}
	}
	if p.RescheduleCount != nil {
		body["qtdReagendamentos"] = *p.RescheduleCount
	}
	return body
}

// wireTime accepts the timestamp layouts the service is known to emit and
// always sends RFC 3339 in UTC. A timestamp without zone is local time.
type wireTime struct {
	time.Time
}

var wireLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var lastErr error
	for _, layout := range wireLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}
