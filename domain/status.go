package domain

import "time"

// UrgentWindow is how close a reminder has to be for a note to turn urgent.
const UrgentWindow = 10 * time.Minute

// NoteStatus is the urgency class of a note. The numeric value is also its
// sort priority.
type NoteStatus int

const (
	StatusOverdue NoteStatus = iota
	StatusUrgent
	StatusNormal
)

func (s NoteStatus) String() string {
	switch s {
	case StatusOverdue:
		return "overdue"
	case StatusUrgent:
		return "urgent"
	case StatusNormal:
		return "normal"
	}
	return "unknown"
}

// Label is the heading of the dashboard section holding notes of this status.
func (s NoteStatus) Label() string {
	switch s {
	case StatusOverdue:
		return "Vencidos"
	case StatusUrgent:
		return "Urgentes"
	case StatusNormal:
		return "Outras"
	}
	return ""
}

// Status classifies a note against now. It must never be cached.
func Status(note Note, now time.Time) NoteStatus {
	if note.ReminderAt == nil {
		return StatusNormal
	}
	diff := note.ReminderAt.Sub(now)
	switch {
	case diff < 0:
		return StatusOverdue
	case diff < UrgentWindow:
		return StatusUrgent
	default:
		return StatusNormal
	}
}

// IsPressing reports overdue or urgent.
func IsPressing(note Note, now time.Time) bool {
	s := Status(note, now)
	return s == StatusOverdue || s == StatusUrgent
}
