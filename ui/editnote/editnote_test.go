package editnote

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/deemkeen/bnotas/api"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
)

type fakeRepo struct {
	common.Repository
	notes   map[int64]domain.Note
	created []domain.Note
	patches map[int64]domain.NotePatch
	deleted []int64
}

func newFakeRepo(notes ...domain.Note) *fakeRepo {
	f := &fakeRepo{notes: map[int64]domain.Note{}, patches: map[int64]domain.NotePatch{}}
	for _, n := range notes {
		f.notes[n.Id] = n
	}
	return f
}

func (f *fakeRepo) FindNote(_ context.Context, id int64) (domain.Note, error) {
	n, ok := f.notes[id]
	if !ok {
		return domain.Note{}, api.ErrNoteNotFound
	}
	return n, nil
}

func (f *fakeRepo) CreateNote(_ context.Context, n domain.Note) (domain.Note, error) {
	f.created = append(f.created, n)
	n.Id = 100
	return n, nil
}

func (f *fakeRepo) UpdateNote(_ context.Context, id int64, p domain.NotePatch) (domain.Note, error) {
	f.patches[id] = p
	return f.notes[id], nil
}

func (f *fakeRepo) DeleteNote(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(key(string(r)))
	}
	return m
}

func TestSaveRequiresTitle(t *testing.T) {
	repo := newFakeRepo()
	m, _ := New(repo, 80)

	m, _ = m.Update(key("ctrl+s"))
	if m.err != domain.ErrTitleRequired.Error() {
		t.Errorf("Expected '%s', got '%s'", domain.ErrTitleRequired, m.err)
	}
	if m.saving {
		t.Error("Expected no save without title")
	}
	if len(repo.created) != 0 {
		t.Error("Expected nothing to be created")
	}
}

func TestCreateDraft(t *testing.T) {
	repo := newFakeRepo()
	m, _ := New(repo, 80)

	m = typeText(m, "Dentist")
	m, _ = m.Update(key("tab"))
	m = typeText(m, "10/06/2025 15:30")
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("ctrl+b"))
	m, _ = m.Update(key("ctrl+f"))
	m, _ = m.Update(key("ctrl+o"))

	m, cmd := m.Update(key("ctrl+s"))
	if !m.saving {
		t.Fatalf("Expected save to start, err '%s'", m.err)
	}
	m, cmd = m.Update(cmd())
	if cmd() != common.UpdateNoteList {
		t.Error("Expected the editor to return to the list")
	}

	if len(repo.created) != 1 {
		t.Fatalf("Expected 1 created note, got %d", len(repo.created))
	}
	n := repo.created[0]
	if n.Title != "Dentist" || !n.Favorite || n.Color != domain.AvailableColors[1] {
		t.Errorf("Unexpected note %s color %s", n.ToString(), n.Color)
	}
	if n.Content != "<b></b>" {
		t.Errorf("Expected toolbar tags in content, got '%s'", n.Content)
	}
	expected := time.Date(2025, 6, 10, 15, 30, 0, 0, time.Local)
	if n.ReminderAt == nil || !n.ReminderAt.Equal(expected) {
		t.Errorf("Expected reminder %v, got %v", expected, n.ReminderAt)
	}
}

func TestInvalidReminderBlocksSave(t *testing.T) {
	repo := newFakeRepo()
	m, _ := New(repo, 80)

	m = typeText(m, "Dentist")
	m, _ = m.Update(key("tab"))
	m = typeText(m, "tomorrow")
	m, _ = m.Update(key("ctrl+s"))

	if m.saving || m.err != errInvalidReminder.Error() {
		t.Errorf("Expected invalid reminder error, got '%s'", m.err)
	}
}

func TestLoadAndUpdateExisting(t *testing.T) {
	reminder := time.Date(2025, 6, 10, 15, 30, 0, 0, time.Local)
	repo := newFakeRepo(domain.Note{Id: 7, Title: "Old", Content: "x", Color: "#ffcdd2", ReminderAt: &reminder, RescheduleCount: 2})

	m, cmd := Load(repo, 7, 80)
	if !m.loading {
		t.Fatal("Expected loading state")
	}
	m, _ = m.Update(cmd())
	if m.loading || m.title.Value() != "Old" || m.reminder.Value() != "10/06/2025 15:30" {
		t.Fatalf("Expected fields to be filled, got '%s' '%s'", m.title.Value(), m.reminder.Value())
	}
	if !strings.Contains(m.View(), "Reagendada 2 vez(es)") {
		t.Error("Expected the reschedule count to be shown")
	}

	m = typeText(m, " New")
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("ctrl+r"))
	m, cmd = m.Update(key("ctrl+s"))
	cmd()

	p, ok := repo.patches[7]
	if !ok {
		t.Fatal("Expected an update of note 7")
	}
	if p.Title == nil || *p.Title != "Old New" {
		t.Errorf("Expected title 'Old New', got %v", p.Title)
	}
	if !p.ClearReminder {
		t.Error("Expected cleared reminder to be sent as null")
	}
	if p.RescheduleCount == nil || *p.RescheduleCount != 2 {
		t.Error("Expected the reschedule count to be sent unchanged")
	}
}

func TestLoadNotFound(t *testing.T) {
	m, cmd := Load(newFakeRepo(), 42, 80)
	m, _ = m.Update(cmd())

	if !m.notFound {
		t.Fatal("Expected not found state")
	}
	if !strings.Contains(m.View(), "nota não encontrada") {
		t.Error("Expected not found message")
	}
	_, cmd = m.Update(key("esc"))
	if cmd() != common.DashboardView {
		t.Error("Expected esc to go back to the dashboard")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	repo := newFakeRepo(domain.Note{Id: 7, Title: "Old"})
	m, cmd := Load(repo, 7, 80)
	m, _ = m.Update(cmd())

	m, _ = m.Update(key("ctrl+d"))
	if !m.confirmDelete {
		t.Fatal("Expected confirmation prompt")
	}
	m, cmd = m.Update(key("ctrl+d"))
	m, cmd = m.Update(cmd())
	if len(repo.deleted) != 1 || repo.deleted[0] != 7 {
		t.Errorf("Expected note 7 deleted, got %v", repo.deleted)
	}
	if cmd() != common.UpdateNoteList {
		t.Error("Expected the editor to return to the list")
	}
}

func TestDraftCannotBeDeleted(t *testing.T) {
	m, _ := New(newFakeRepo(), 80)
	m, _ = m.Update(key("ctrl+d"))
	if m.confirmDelete {
		t.Error("Expected no delete for a draft")
	}
}
