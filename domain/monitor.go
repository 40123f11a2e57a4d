package domain

import "time"

// PollInterval is how often the dashboard reloads notes and re-checks for
// critical ones.
const PollInterval = 5 * time.Minute

// SnoozeSet holds the ids the user dismissed from the critical prompt. It
// lives as long as the running program and is never persisted.
type SnoozeSet map[int64]struct{}

func (s SnoozeSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s SnoozeSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// CriticalMonitor decides when to show the blocking "urgent" prompt. At most
// one prompt is visible at a time and a snoozed note never comes back.
type CriticalMonitor struct {
	snoozed SnoozeSet
	prompt  *Note
}

func NewCriticalMonitor() *CriticalMonitor {
	return &CriticalMonitor{snoozed: SnoozeSet{}}
}

// IsCritical reports whether a note qualifies for the prompt: it has a saved
// id, a reminder less than UrgentWindow away (or past) and is not snoozed.
func (m *CriticalMonitor) IsCritical(note Note, now time.Time) bool {
	if note.ReminderAt == nil || note.Id == 0 {
		return false
	}
	if m.snoozed.Has(note.Id) {
		return false
	}
	return note.ReminderAt.Sub(now) < UrgentWindow
}

// Evaluate picks the first critical note in iteration order and opens a
// prompt for it. It returns false when a prompt is already visible or
// nothing qualifies.
func (m *CriticalMonitor) Evaluate(notes []Note, now time.Time) (Note, bool) {
	if m.prompt != nil {
		return Note{}, false
	}
	for _, n := range notes {
		if m.IsCritical(n, now) {
			found := n
			m.prompt = &found
			return found, true
		}
	}
	return Note{}, false
}

// Prompt returns the note currently shown, if any.
func (m *CriticalMonitor) Prompt() (Note, bool) {
	if m.prompt == nil {
		return Note{}, false
	}
	return *m.prompt, true
}

func (m *CriticalMonitor) Visible() bool {
	return m.prompt != nil
}

// Close dismisses the prompt without touching the snooze set.
func (m *CriticalMonitor) Close() {
	m.prompt = nil
}

// Snooze suppresses the note for the rest of the session and closes the
// prompt. Used by both the snooze and the ignore actions.
func (m *CriticalMonitor) Snooze(id int64) {
	m.snoozed.Add(id)
	m.prompt = nil
}

func (m *CriticalMonitor) IsSnoozed(id int64) bool {
	return m.snoozed.Has(id)
}
