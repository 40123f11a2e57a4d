package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Tab is the dashboard selection.
type Tab int

const (
	TabAll Tab = iota
	TabUrgent
	TabFavorites
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAll, TabUrgent, TabFavorites}

func (t Tab) String() string {
	switch t {
	case TabAll:
		return "all"
	case TabUrgent:
		return "urgent"
	case TabFavorites:
		return "favorites"
	}
	return "unknown"
}

func (t Tab) Label() string {
	switch t {
	case TabAll:
		return "Todas"
	case TabUrgent:
		return "Urgentes"
	case TabFavorites:
		return "Favoritas"
	}
	return ""
}

// Next returns the following tab, wrapping around.
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

func (t Tab) Prev() Tab {
	return Tabs[(int(t)+len(Tabs)-1)%len(Tabs)]
}

// NoteGroup is one labelled section of the "all" tab.
type NoteGroup struct {
	Status NoteStatus
	Notes  []Note
}

func (t Tab) keep(note Note, status NoteStatus) bool {
	switch t {
	case TabUrgent:
		return status == StatusOverdue || status == StatusUrgent
	case TabFavorites:
		return note.Favorite
	case TabAll:
		return true
	}
	return false
}

func matchesSearch(note Note, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(note.Title), term) ||
		strings.Contains(strings.ToLower(note.Content), term)
}

// FilterNotes applies the search term and the tab, then orders the result by
// status priority and newest creation first. The input is left untouched.
func FilterNotes(notes []Note, searchTerm string, tab Tab, now time.Time) []Note {
	type ranked struct {
		note   Note
		status NoteStatus
	}

	kept := make([]ranked, 0, len(notes))
	for _, n := range notes {
		if !matchesSearch(n, searchTerm) {
			continue
		}
		status := Status(n, now)
		if !tab.keep(n, status) {
			continue
		}
		kept = append(kept, ranked{note: n, status: status})
	}

	slices.SortStableFunc(kept, func(a, b ranked) int {
		if c := cmp.Compare(a.status, b.status); c != 0 {
			return c
		}
		return b.note.CreatedAt.Compare(a.note.CreatedAt)
	})

	out := make([]Note, len(kept))
	for i, r := range kept {
		out[i] = r.note
	}
	return out
}

// GroupByStatus partitions an ordered list into overdue, urgent and normal
// sections, keeping the order inside each. Empty sections are dropped.
func GroupByStatus(notes []Note, now time.Time) []NoteGroup {
	groups := []NoteGroup{
		{Status: StatusOverdue},
		{Status: StatusUrgent},
		{Status: StatusNormal},
	}
	for _, n := range notes {
		s := Status(n, now)
		groups[s].Notes = append(groups[s].Notes, n)
	}

	return slices.DeleteFunc(groups, func(g NoteGroup) bool {
		return len(g.Notes) == 0
	})
}

// CountUrgent counts overdue and urgent notes.
func CountUrgent(notes []Note, now time.Time) int {
	n := 0
	for _, note := range notes {
		if IsPressing(note, now) {
			n++
		}
	}
	return n
}

func CountFavorites(notes []Note) int {
	n := 0
	for _, note := range notes {
		if note.Favorite {
			n++
		}
	}
	return n
}
