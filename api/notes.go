package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deemkeen/bnotas/domain"
)

// ListNotes fetches every note of the logged in user in server order.
func (c *Client) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var wire []noteJSON
	if err := c.do(ctx, http.MethodGet, "/anotacoes", true, nil, &wire, "Erro ao buscar notas"); err != nil {
		return nil, err
	}

	notes := make([]domain.Note, 0, len(wire))
	for _, n := range wire {
		notes = append(notes, n.toDomain())
	}
	return notes, nil
}

// FindNote fetches a fresh list and returns the note with id.
func (c *Client) FindNote(ctx context.Context, id int64) (domain.Note, error) {
	notes, err := c.ListNotes(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	for _, n := range notes {
		if n.Id == id {
			return n, nil
		}
	}
	return domain.Note{}, ErrNoteNotFound
}

// CreateNote persists a draft and returns the stored note.
func (c *Client) CreateNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	if err := note.Validate(); err != nil {
		return domain.Note{}, err
	}

	var created noteJSON
	if err := c.do(ctx, http.MethodPost, "/anotacoes", true, newNoteJSON(note.WithDefaults()), &created, "Erro ao criar nota"); err != nil {
		return domain.Note{}, err
	}
	return created.toDomain(), nil
}

// UpdateNote sends a partial update. The returned note is the server's view
// and may be zero when the service answers without a body.
func (c *Client) UpdateNote(ctx context.Context, id int64, patch domain.NotePatch) (domain.Note, error) {
	if patch.Title != nil {
		probe := domain.Note{Title: *patch.Title}
		if err := probe.Validate(); err != nil {
			return domain.Note{}, err
		}
	}

	var updated noteJSON
	path := fmt.Sprintf("/anotacoes/%d", id)
	if err := c.do(ctx, http.MethodPut, path, true, patchBody(patch), &updated, "Erro ao atualizar nota"); err != nil {
		return domain.Note{}, err
	}
	return updated.toDomain(), nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/anotacoes/%d", id)
	return c.do(ctx, http.MethodDelete, path, true, nil, nil, "Erro ao excluir nota")
}
