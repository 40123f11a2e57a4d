package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNoteToString(t *testing.T) {
	note := &Note{
		Id:        42,
		Title:     "Buy milk",
		CreatedAt: time.Now(),
	}

	result := note.ToString()

	if !strings.Contains(result, "Buy milk") {
		t.Errorf("ToString() should contain title, got: %s", result)
	}
	if !strings.Contains(result, "42") {
		t.Errorf("ToString() should contain id, got: %s", result)
	}
}

func TestNewDraft(t *testing.T) {
	draft := NewDraft()

	if !draft.IsDraft() {
		t.Error("Expected a new draft to be a draft")
	}
	if draft.Color != DefaultColor {
		t.Errorf("Expected color %s, got %s", DefaultColor, draft.Color)
	}
	if draft.HasReminder() {
		t.Error("Expected a new draft to have no reminder")
	}
	if draft.RescheduleCount != 0 {
		t.Errorf("Expected reschedule count 0, got %d", draft.RescheduleCount)
	}
}

func TestNoteValidate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "regular title", title: "Dentist", wantErr: false},
		{name: "empty title", title: "", wantErr: true},
		{name: "blank title", title: "   \t", wantErr: true},
		{name: "padded title", title: "  x  ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := Note{Title: tt.title}
			err := note.Validate()
			if tt.wantErr && err != ErrTitleRequired {
				t.Errorf("Expected ErrTitleRequired, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	note := Note{Id: 1, Title: "x", RescheduleCount: -3}.WithDefaults()

	if note.Color != DefaultColor {
		t.Errorf("Expected default color, got %q", note.Color)
	}
	if note.RescheduleCount != 0 {
		t.Errorf("Expected reschedule count clamped to 0, got %d", note.RescheduleCount)
	}

	kept := Note{Color: "#ffcdd2", RescheduleCount: 2}.WithDefaults()
	if kept.Color != "#ffcdd2" || kept.RescheduleCount != 2 {
		t.Errorf("Expected existing values to be kept, got %s/%d", kept.Color, kept.RescheduleCount)
	}
}

func TestPatchFromNote(t *testing.T) {
	reminder := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	note := Note{Id: 3, Title: "t", Content: "c", Favorite: true, Color: "#f5f5f5", ReminderAt: &reminder, RescheduleCount: 1}

	p := PatchFromNote(note)
	if p.Title == nil || *p.Title != "t" {
		t.Error("Expected title in patch")
	}
	if p.Favorite == nil || !*p.Favorite {
		t.Error("Expected favorite in patch")
	}
	if p.ClearReminder {
		t.Error("Expected reminder not to be cleared")
	}
	if p.ReminderAt == nil || !p.ReminderAt.Equal(reminder) {
		t.Errorf("Expected reminder %v, got %v", reminder, p.ReminderAt)
	}

	note.ReminderAt = nil
	p = PatchFromNote(note)
	if !p.ClearReminder {
		t.Error("Expected a note without reminder to clear it")
	}
}

func TestMarkDonePatch(t *testing.T) {
	p := MarkDonePatch()

	if !p.ClearReminder {
		t.Error("Expected mark done to clear the reminder")
	}
	if p.RescheduleCount == nil || *p.RescheduleCount != 0 {
		t.Error("Expected mark done to reset the reschedule count")
	}
	if p.Title != nil || p.Favorite != nil {
		t.Error("Expected mark done to leave other fields alone")
	}
}

func TestNextColor(t *testing.T) {
	if got := NextColor(DefaultColor); got != AvailableColors[1] {
		t.Errorf("Expected %s, got %s", AvailableColors[1], got)
	}
	last := AvailableColors[len(AvailableColors)-1]
	if got := NextColor(last); got != AvailableColors[0] {
		t.Errorf("Expected wrap to %s, got %s", AvailableColors[0], got)
	}
	if got := NextColor("#123456"); got != AvailableColors[0] {
		t.Errorf("Expected unknown color to restart at %s, got %s", AvailableColors[0], got)
	}
}
