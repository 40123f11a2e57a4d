package urgent

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/util"
)

// Action is what the user chose to do with the critical note.
type Action int

const (
	None Action = iota
	MarkDone
	Snooze
	Delete
	Ignore
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(common.COLOR_RED)).
			Padding(1, 3).
			Width(56)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(common.COLOR_RED))
)

// Model is the prompt for one critical note. The dashboard runs the chosen
// action and reports failures back with Fail.
type Model struct {
	Note          domain.Note
	confirmDelete bool
	busy          bool
	err           string
}

func New(note domain.Note) Model {
	return Model{Note: note}
}

// Update maps a key to an action. Delete needs a second press.
func (m Model) Update(msg tea.KeyMsg) (Model, Action) {
	if m.busy {
		return m, None
	}

	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		if key == "d" || key == "y" {
			m.busy = true
			m.err = ""
			return m, Delete
		}
		return m, None
	}

	switch key {
	case "c", "enter":
		m.busy = true
		m.err = ""
		return m, MarkDone
	case "s":
		return m, Snooze
	case "d":
		m.confirmDelete = true
		return m, None
	case "i", "esc":
		return m, Ignore
	}
	return m, None
}

// Fail keeps the prompt open with the error of the last action.
func (m Model) Fail(err error) Model {
	m.busy = false
	m.err = err.Error()
	return m
}

func (m Model) ConfirmingDelete() bool {
	return m.confirmDelete
}

func (m Model) View(now time.Time) string {
	var s strings.Builder

	status := domain.Status(m.Note, now)
	heading := "⏰ Tarefa urgente"
	if status == domain.StatusOverdue {
		heading = "⏰ Tarefa vencida"
	}
	s.WriteString(titleStyle.Render(heading))
	s.WriteString("\n\n")
	s.WriteString(common.LabelStyle.Render(m.Note.Title))
	s.WriteString("\n")
	if m.Note.ReminderAt != nil {
		s.WriteString(common.MutedStyle.Render("Lembrete: " + util.FormatDateDisplay(m.Note.ReminderAt)))
		s.WriteString("\n")
	}
	if text := util.Truncate(util.StripHTML(m.Note.Content), 160); text != "" {
		s.WriteString("\n" + text + "\n")
	}
	if m.Note.RescheduleCount > 0 {
		s.WriteString(common.MutedStyle.Render(fmt.Sprintf("Reagendada %d vez(es)", m.Note.RescheduleCount)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	switch {
	case m.busy:
		s.WriteString(common.MutedStyle.Render("Aguarde..."))
	case m.confirmDelete:
		s.WriteString(common.ErrorStyle.Render("Excluir esta nota? d/y: confirmar • outra tecla: cancelar"))
	default:
		s.WriteString(common.HelpStyle.UnsetPadding().Render("c: concluir • s: adiar • d: excluir • i: ignorar"))
	}
	if m.err != "" {
		s.WriteString("\n\n" + common.ErrorStyle.Render(m.err))
	}

	return boxStyle.Render(s.String())
}
