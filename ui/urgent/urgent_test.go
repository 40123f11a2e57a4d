package urgent

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/deemkeen/bnotas/domain"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestActions(t *testing.T) {
	tests := []struct {
		key      string
		expected Action
	}{
		{"c", MarkDone},
		{"enter", MarkDone},
		{"s", Snooze},
		{"i", Ignore},
		{"esc", Ignore},
		{"x", None},
		{"d", None},
	}

	for _, tt := range tests {
		m := New(domain.Note{Id: 1, Title: "t"})
		if _, action := m.Update(key(tt.key)); action != tt.expected {
			t.Errorf("Key %s: expected %d, got %d", tt.key, tt.expected, action)
		}
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := New(domain.Note{Id: 1, Title: "t"})

	m, action := m.Update(key("d"))
	if action != None || !m.ConfirmingDelete() {
		t.Fatal("Expected first d to ask for confirmation")
	}
	m, action = m.Update(key("d"))
	if action != Delete {
		t.Errorf("Expected second d to delete, got %d", action)
	}

	m = New(domain.Note{Id: 1, Title: "t"})
	m, _ = m.Update(key("d"))
	m, action = m.Update(key("n"))
	if action != None || m.ConfirmingDelete() {
		t.Error("Expected other key to cancel the delete")
	}
}

func TestFailKeepsPromptUsable(t *testing.T) {
	m := New(domain.Note{Id: 1, Title: "t"})

	m, action := m.Update(key("c"))
	if action != MarkDone {
		t.Fatalf("Expected MarkDone, got %d", action)
	}
	if _, action := m.Update(key("c")); action != None {
		t.Error("Expected keys to be ignored while busy")
	}

	m = m.Fail(errors.New("Erro ao atualizar nota"))
	if !strings.Contains(m.View(time.Now()), "Erro ao atualizar nota") {
		t.Error("Expected error to be rendered inline")
	}
	if _, action := m.Update(key("c")); action != MarkDone {
		t.Error("Expected retry to be possible after failure")
	}
}

func TestViewHeading(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-5 * time.Minute)
	soon := now.Add(3 * time.Minute)

	if v := New(domain.Note{Id: 1, Title: "a", ReminderAt: &past}).View(now); !strings.Contains(v, "vencida") {
		t.Error("Expected overdue heading")
	}
	if v := New(domain.Note{Id: 1, Title: "a", ReminderAt: &soon}).View(now); !strings.Contains(v, "urgente") {
		t.Error("Expected urgent heading")
	}
}
