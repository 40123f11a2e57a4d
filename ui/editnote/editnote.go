package editnote

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/api"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/util"
)

const MaxTitleLetters = 120

const (
	focusTitle = iota
	focusReminder
	focusContent
	focusCount
)

var errInvalidReminder = errors.New("Data de lembrete inválida (use dd/mm/aaaa hh:mm)")

// toolbar maps a key to the tag pair it wraps around the cursor.
var toolbar = map[string][2]string{
	"ctrl+b": {"<b>", "</b>"},
	"ctrl+t": {"<i>", "</i>"},
	"ctrl+u": {"<u>", "</u>"},
	"ctrl+l": {"<li>", "</li>"},
}

type Model struct {
	repo     common.Repository
	note     domain.Note
	title    textinput.Model
	reminder textinput.Model
	content  textarea.Model
	focus    int

	loading       bool
	saving        bool
	notFound      bool
	confirmDelete bool
	err           string

	loc   *time.Location
	width int

	Now func() time.Time
}

type noteLoadedMsg struct {
	note domain.Note
	err  error
}

type savedMsg struct {
	err error
}

func newModel(repo common.Repository, width int) Model {
	title := textinput.New()
	title.Placeholder = "Título"
	title.CharLimit = MaxTitleLetters
	title.Width = 50

	reminder := textinput.New()
	reminder.Placeholder = "dd/mm/aaaa hh:mm"
	reminder.CharLimit = len(util.ReminderInputLayout)
	reminder.Width = 20

	content := textarea.New()
	content.Placeholder = "Escreva sua nota..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetWidth(max(common.DefaultWindowWidth(width)-10, 30))
	content.SetHeight(8)

	return Model{
		repo:     repo,
		note:     domain.NewDraft(),
		title:    title,
		reminder: reminder,
		content:  content,
		loc:      time.Local,
		width:    width,
		Now:      time.Now,
	}
}

// New opens the editor on an empty draft.
func New(repo common.Repository, width int) (Model, tea.Cmd) {
	m := newModel(repo, width)
	cmd := m.setFocus(focusTitle)
	return m, cmd
}

// Load opens the editor on the note with id, fetched from a fresh list.
// An id of 0 opens a draft.
func Load(repo common.Repository, id int64, width int) (Model, tea.Cmd) {
	if id == 0 {
		return New(repo, width)
	}
	m := newModel(repo, width)
	m.loading = true
	m.note.Id = id
	return m, findNote(repo, id)
}

func findNote(repo common.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		note, err := repo.FindNote(ctx, id)
		if err != nil {
			log.Printf("Failed to load note %d: %v", id, err)
		}
		return noteLoadedMsg{note: note, err: err}
	}
}

func saveNote(repo common.Repository, note domain.Note) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		var err error
		if note.IsDraft() {
			_, err = repo.CreateNote(ctx, note)
		} else {
			_, err = repo.UpdateNote(ctx, note.Id, domain.PatchFromNote(note))
		}
		if err != nil {
			log.Printf("Note could not be saved: %v", err)
		}
		return savedMsg{err: err}
	}
}

func deleteNote(repo common.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		err := repo.DeleteNote(ctx, id)
		if err != nil {
			log.Printf("Note %d could not be deleted: %v", id, err)
		}
		return savedMsg{err: err}
	}
}

func backToList() tea.Msg {
	return common.UpdateNoteList
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) setFocus(focus int) tea.Cmd {
	m.focus = (focus + focusCount) % focusCount
	m.title.Blur()
	m.reminder.Blur()
	m.content.Blur()
	switch m.focus {
	case focusTitle:
		return m.title.Focus()
	case focusReminder:
		return m.reminder.Focus()
	default:
		return m.content.Focus()
	}
}

func (m *Model) fill(note domain.Note) {
	m.note = note
	m.title.SetValue(note.Title)
	m.reminder.SetValue(util.FormatReminderInput(note.ReminderAt))
	m.content.SetValue(note.Content)
}

// collect reads the fields back into a copy of the note.
func (m Model) collect() (domain.Note, error) {
	note := m.note
	note.Title = strings.TrimSpace(m.title.Value())
	note.Content = m.content.Value()
	reminder, err := util.ParseReminderInput(m.reminder.Value(), m.loc)
	if err != nil {
		return note, errInvalidReminder
	}
	note.ReminderAt = reminder
	return note, nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noteLoadedMsg:
		if !m.loading || msg.note.Id != m.note.Id && msg.err == nil {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.notFound = errors.Is(msg.err, api.ErrNoteNotFound)
			m.err = msg.err.Error()
			return m, nil
		}
		m.fill(msg.note)
		cmd := m.setFocus(focusTitle)
		return m, cmd

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		return m, backToList

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if m.loading || m.notFound {
		if msg.String() == "esc" {
			return m, func() tea.Msg { return common.DashboardView }
		}
		return m, nil
	}

	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		if key == "ctrl+d" || key == "y" {
			m.saving = true
			return m, deleteNote(m.repo, m.note.Id)
		}
		return m, nil
	}

	if tags, ok := toolbar[key]; ok {
		if m.focus != focusContent {
			cmd := m.setFocus(focusContent)
			m.content.InsertString(tags[0] + tags[1])
			return m, cmd
		}
		m.content.InsertString(tags[0] + tags[1])
		return m, nil
	}

	switch key {
	case "esc":
		return m, func() tea.Msg { return common.DashboardView }
	case "tab":
		cmd := m.setFocus(m.focus + 1)
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus(m.focus - 1)
		return m, cmd
	case "ctrl+s":
		return m.save()
	case "ctrl+f":
		m.note.Favorite = !m.note.Favorite
		return m, nil
	case "ctrl+o":
		m.note.Color = domain.NextColor(m.note.Color)
		return m, nil
	case "ctrl+r":
		m.reminder.SetValue("")
		return m, nil
	case "ctrl+d":
		if !m.note.IsDraft() {
			m.confirmDelete = true
		}
		return m, nil
	case "enter":
		if m.focus != focusContent {
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusReminder:
		m.reminder, cmd = m.reminder.Update(msg)
	default:
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m Model) save() (Model, tea.Cmd) {
	note, err := m.collect()
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	if err := note.Validate(); err != nil {
		m.err = err.Error()
		cmd := m.setFocus(focusTitle)
		return m, cmd
	}
	m.err = ""
	m.saving = true
	m.note = note
	return m, saveNote(m.repo, note)
}

// Note is the note as currently held by the editor.
func (m Model) Note() domain.Note {
	return m.note
}

func (m Model) View() string {
	var s strings.Builder

	caption := "nova nota"
	if !m.note.IsDraft() {
		caption = fmt.Sprintf("editar nota #%d", m.note.Id)
	}
	s.WriteString(common.CaptionStyle.Render(caption))
	s.WriteString("\n")

	if m.loading {
		s.WriteString(common.MutedStyle.Render("Carregando nota..."))
		return s.String()
	}
	if m.notFound {
		s.WriteString(common.ErrorStyle.Render(m.err))
		s.WriteString("\n\n")
		s.WriteString(common.HelpStyle.Render("esc: voltar"))
		return s.String()
	}

	star := "☆"
	if m.note.Favorite {
		star = "★"
	}
	s.WriteString(fmt.Sprintf("%s %s  %s %s\n\n", common.NoteSwatch(m.note.Color), m.note.Color, star, common.MutedStyle.Render("favorita")))

	s.WriteString(common.LabelStyle.Render("Título") + "\n" + m.title.View() + "\n\n")
	s.WriteString(common.LabelStyle.Render("Lembrete") + "\n" + m.reminder.View())
	if chip := m.reminderChip(); chip != "" {
		s.WriteString("  " + chip)
	}
	s.WriteString("\n\n")
	s.WriteString(common.LabelStyle.Render("Conteúdo") + "\n" + m.content.View() + "\n")

	if m.note.RescheduleCount > 0 {
		s.WriteString(common.MutedStyle.Render(fmt.Sprintf("Reagendada %d vez(es)", m.note.RescheduleCount)) + "\n")
	}
	if m.note.UpdatedAt != nil {
		s.WriteString(common.MutedStyle.Render("Modificada em "+util.FormatDateDisplay(m.note.UpdatedAt)) + "\n")
	}

	s.WriteString("\n")
	switch {
	case m.saving:
		s.WriteString(common.MutedStyle.Render("Salvando..."))
	case m.confirmDelete:
		s.WriteString(common.ErrorStyle.Render("Excluir esta nota? ctrl+d/y: confirmar • outra tecla: cancelar"))
	case m.err != "":
		s.WriteString(common.ErrorStyle.Render(m.err))
	}
	s.WriteString("\n")

	help := "ctrl+s: salvar • ctrl+f: favorita • ctrl+o: cor • ctrl+r: limpar lembrete • ctrl+b/t/u/l: negrito/itálico/sublinhado/lista"
	if !m.note.IsDraft() {
		help += " • ctrl+d: excluir"
	}
	s.WriteString(common.HelpStyle.Render(help + " • esc: voltar"))

	return lipgloss.NewStyle().MaxWidth(max(m.width, 40)).Render(s.String())
}

// reminderChip shows the status the reminder currently typed would have.
func (m Model) reminderChip() string {
	at, err := util.ParseReminderInput(m.reminder.Value(), m.loc)
	if err != nil || at == nil {
		return ""
	}
	status := domain.Status(domain.Note{ReminderAt: at}, m.Now())
	if status == domain.StatusNormal {
		return ""
	}
	return lipgloss.NewStyle().Foreground(common.StatusColor(status)).Render(status.Label())
}
