package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultColor = "#fff9c4"

// AvailableColors are the post-it colors a note can take.
var AvailableColors = []string{
	"#fff9c4", // yellow
	"#ffcdd2", // red
	"#f8bbd0", // pink
	"#e1bee7", // purple
	"#d1c4e9", // indigo
	"#c5cae9", // blue
	"#bbdefb", // light blue
	"#b3e5fc", // cyan
	"#b2dfdb", // teal
	"#c8e6c9", // green
	"#f0f4c3", // lime
	"#ffe0b2", // orange
	"#f5f5f5", // grey
}

// Note is the persisted note entity as served by the notes API.
// An Id of 0 marks a draft that was never saved.
type Note struct {
	Id              int64
	Title           string
	Content         string
	Favorite        bool
	Color           string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	ReminderAt      *time.Time
	RescheduleCount int
}

// NewDraft returns an unsaved note with the editor defaults.
func NewDraft() Note {
	return Note{Color: DefaultColor}
}

func (note *Note) IsDraft() bool {
	return note.Id == 0
}

func (note *Note) HasReminder() bool {
	return note.ReminderAt != nil
}

// WithDefaults fills the fields the server may leave empty.
func (note Note) WithDefaults() Note {
	if note.Color == "" {
		note.Color = DefaultColor
	}
	if note.RescheduleCount < 0 {
		note.RescheduleCount = 0
	}
	return note
}

// Validate checks the note can be persisted.
func (note *Note) Validate() error {
	if strings.TrimSpace(note.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

func (note *Note) ToString() string {
	return fmt.Sprintf("\n\tId: %d \n\tTitle: %s \n\tFavorite: %t \n\tReminderAt: %v \n\tCreatedAt: %s)", note.Id, note.Title, note.Favorite, note.ReminderAt, note.CreatedAt)
}

// NotePatch is a partial note update. Nil fields are left untouched.
// ClearReminder sends an explicit null reminder and wins over ReminderAt.
type NotePatch struct {
	Title           *string
	Content         *string
	Favorite        *bool
	Color           *string
	ReminderAt      *time.Time
	ClearReminder   bool
	RescheduleCount *int
}

// PatchFromNote builds a patch carrying every editable field of the note.
func PatchFromNote(note Note) NotePatch {
	p := NotePatch{
		Title:           &note.Title,
		Content:         &note.Content,
		Favorite:        &note.Favorite,
		Color:           &note.Color,
		RescheduleCount: &note.RescheduleCount,
	}
	if note.ReminderAt != nil {
		p.ReminderAt = note.ReminderAt
	} else {
		p.ClearReminder = true
	}
	return p
}

// MarkDonePatch clears the reminder and the reschedule counter.
func MarkDonePatch() NotePatch {
	zero := 0
	return NotePatch{ClearReminder: true, RescheduleCount: &zero}
}

// FavoritePatch sets only the favorite flag.
func FavoritePatch(favorite bool) NotePatch {
	return NotePatch{Favorite: &favorite}
}

// NextColor cycles through AvailableColors, starting over at the end.
func NextColor(current string) string {
	for i, c := range AvailableColors {
		if strings.EqualFold(c, current) {
			return AvailableColors[(i+1)%len(AvailableColors)]
		}
	}
	return AvailableColors[0]
}
