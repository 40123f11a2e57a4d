package dashboard

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/ui/urgent"
	"github.com/deemkeen/bnotas/util"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color(common.COLOR_GREY))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(lipgloss.Color(common.COLOR_MAGENTA)).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(common.COLOR_MAGENTA))

	groupStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)

	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE)).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(common.COLOR_GREY)).Italic(true)
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmLogout
)

// Model is the note dashboard: search, tabs, the status grouped list and the
// critical task prompt with its poll timer.
type Model struct {
	repo    common.Repository
	monitor *domain.CriticalMonitor

	notes   []domain.Note
	visible []domain.Note

	search    textinput.Model
	searching bool
	tab       domain.Tab
	selected  int
	offset    int

	spinner    spinner.Model
	loading    bool
	refreshing bool

	prompt     *urgent.Model
	confirm    confirmKind
	confirmId  int64
	statusLine string
	err        string

	// generation of the poll timer, replaced to drop outstanding ticks
	pollGen int64
	active  bool

	width  int
	height int

	Now func() time.Time
}

// notesLoadedMsg carries a fresh note list.
type notesLoadedMsg struct {
	notes []domain.Note
	err   error
}

type pollTickMsg struct {
	gen int64
}

// pollGenerations is shared by every dashboard so a tick scheduled by one
// instance is never accepted by the next one built after a re-login.
var pollGenerations atomic.Int64

func nextPollGen() int64 {
	return pollGenerations.Add(1)
}

// noteChangedMsg reports a mutation made from the dashboard.
type noteChangedMsg struct {
	fromPrompt bool
	status     string
	err        error
}

func New(repo common.Repository, monitor *domain.CriticalMonitor, width, height int) Model {
	search := textinput.New()
	search.Placeholder = "Buscar notas..."
	search.Prompt = "🔍 "
	search.CharLimit = 100
	search.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(common.COLOR_MAGENTA))

	if monitor == nil {
		monitor = domain.NewCriticalMonitor()
	}

	return Model{
		repo:    repo,
		monitor: monitor,
		search:  search,
		spinner: sp,
		tab:     domain.TabAll,
		pollGen: nextPollGen(),
		loading: true,
		active:  true,
		width:   common.DefaultWindowWidth(width),
		height:  common.DefaultWindowHeight(height),
		Now:     time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadNotes(m.repo), m.spinner.Tick, pollTick(m.pollGen))
}

// Stop invalidates the poll timer. Used when the dashboard is left.
func (m Model) Stop() Model {
	m.pollGen = nextPollGen()
	m.active = false
	m.prompt = nil
	m.monitor.Close()
	return m
}

// Resume restarts the poll timer and reloads the list in the background.
func (m Model) Resume() (Model, tea.Cmd) {
	m.pollGen = nextPollGen()
	m.active = true
	m.refreshing = true
	return m, tea.Batch(loadNotes(m.repo), m.spinner.Tick, pollTick(m.pollGen))
}

func loadNotes(repo common.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		notes, err := repo.ListNotes(ctx)
		if err != nil {
			log.Printf("Failed to load notes: %v", err)
		}
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func pollTick(gen int64) tea.Cmd {
	return tea.Tick(domain.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func toggleFavorite(repo common.Repository, note domain.Note) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		if _, err := repo.UpdateNote(ctx, note.Id, domain.FavoritePatch(!note.Favorite)); err != nil {
			log.Printf("Failed to toggle favorite of %d: %v", note.Id, err)
			return noteChangedMsg{err: err}
		}
		return noteChangedMsg{}
	}
}

func deleteNote(repo common.Repository, id int64, fromPrompt bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		if err := repo.DeleteNote(ctx, id); err != nil {
			log.Printf("Failed to delete note %d: %v", id, err)
			return noteChangedMsg{fromPrompt: fromPrompt, err: err}
		}
		return noteChangedMsg{fromPrompt: fromPrompt, status: "Nota excluída"}
	}
}

func markDone(repo common.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		if _, err := repo.UpdateNote(ctx, id, domain.MarkDonePatch()); err != nil {
			log.Printf("Failed to mark note %d as done: %v", id, err)
			return noteChangedMsg{fromPrompt: true, err: err}
		}
		return noteChangedMsg{fromPrompt: true, status: "Tarefa concluída"}
	}
}

func logout(repo common.Repository) tea.Cmd {
	return func() tea.Msg {
		if err := repo.Logout(); err != nil {
			log.Printf("Failed to clear stored session: %v", err)
		}
		return common.LoggedOutMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case notesLoadedMsg:
		m.loading = false
		m.refreshing = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.notes = msg.notes
		m.refilter()
		m.evaluate()
		return m, nil

	case pollTickMsg:
		if msg.gen != m.pollGen || !m.active {
			return m, nil
		}
		m.evaluate()
		return m, tea.Batch(loadNotes(m.repo), pollTick(m.pollGen))

	case noteChangedMsg:
		if msg.err != nil {
			if msg.fromPrompt && m.prompt != nil {
				p := m.prompt.Fail(msg.err)
				m.prompt = &p
				return m, nil
			}
			m.err = msg.err.Error()
			return m, nil
		}
		if msg.fromPrompt {
			m.prompt = nil
			m.monitor.Close()
		}
		m.err = ""
		m.statusLine = msg.status
		m.refreshing = true
		return m, tea.Batch(loadNotes(m.repo), m.spinner.Tick)

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	p, action := m.prompt.Update(msg)
	m.prompt = &p
	id := p.Note.Id

	switch action {
	case urgent.MarkDone:
		return m, markDone(m.repo, id)
	case urgent.Delete:
		return m, deleteNote(m.repo, id, true)
	case urgent.Snooze:
		m.monitor.Snooze(id)
		m.prompt = nil
		return m, func() tea.Msg { return common.EditNoteMsg{Id: id} }
	case urgent.Ignore:
		m.monitor.Snooze(id)
		m.prompt = nil
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	kind, id := m.confirm, m.confirmId
	m.confirm = confirmNone
	m.confirmId = 0
	if msg.String() != "y" {
		return m, nil
	}
	switch kind {
	case confirmDelete:
		return m, deleteNote(m.repo, id, false)
	case confirmLogout:
		m = m.Stop()
		return m, logout(m.repo)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "down":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selected = 0
	m.offset = 0
	m.refilter()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.selected = 0
			m.refilter()
		}
	case "tab", "right", "l":
		m = m.switchTab(m.tab.Next())
	case "shift+tab", "left", "h":
		m = m.switchTab(m.tab.Prev())
	case "1":
		m = m.switchTab(domain.TabAll)
	case "2":
		m = m.switchTab(domain.TabUrgent)
	case "3":
		m = m.switchTab(domain.TabFavorites)
	case "n":
		return m, func() tea.Msg { return common.EditNoteMsg{Id: 0} }
	case "enter", "e":
		if note, ok := m.Selected(); ok {
			id := note.Id
			return m, func() tea.Msg { return common.EditNoteMsg{Id: id} }
		}
	case "f":
		if note, ok := m.Selected(); ok {
			return m, toggleFavorite(m.repo, note)
		}
	case "d":
		if note, ok := m.Selected(); ok {
			m.confirm = confirmDelete
			m.confirmId = note.Id
		}
	case "r":
		if !m.loading {
			m.refreshing = true
			m.statusLine = ""
			return m, tea.Batch(loadNotes(m.repo), m.spinner.Tick)
		}
	case "x":
		m.confirm = confirmLogout
	}
	m.scroll()
	return m, nil
}

func (m Model) switchTab(tab domain.Tab) Model {
	m.tab = tab
	m.selected = 0
	m.offset = 0
	m.refilter()
	return m
}

func (m *Model) refilter() {
	m.visible = domain.FilterNotes(m.notes, m.search.Value(), m.tab, m.Now())
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
	m.scroll()
}

// evaluate runs the critical task monitor over the raw list.
func (m *Model) evaluate() {
	if m.prompt != nil || !m.active {
		return
	}
	if note, ok := m.monitor.Evaluate(m.notes, m.Now()); ok {
		p := urgent.New(note)
		m.prompt = &p
	}
}

func (m *Model) scroll() {
	page := m.pageSize()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+page {
		m.offset = m.selected - page + 1
	}
}

func (m Model) pageSize() int {
	// header, tabs, search and help take about 14 lines, a note takes 3
	page := (m.height - 14) / 3
	if page < 3 {
		page = 3
	}
	return page
}

// Selected is the highlighted note of the visible list.
func (m Model) Selected() (domain.Note, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return domain.Note{}, false
	}
	return m.visible[m.selected], true
}

// Visible is the filtered and sorted list as rendered.
func (m Model) Visible() []domain.Note {
	return m.visible
}

// PromptVisible reports whether the critical task prompt is shown.
func (m Model) PromptVisible() bool {
	return m.prompt != nil
}

// Capturing reports whether keys go to a text field or dialog, so global
// shortcuts should not apply.
func (m Model) Capturing() bool {
	return m.searching || m.prompt != nil || m.confirm != confirmNone
}

func (m Model) View() string {
	now := m.Now()
	var s strings.Builder

	s.WriteString(m.renderTabs(now))
	s.WriteString("\n")
	s.WriteString(m.search.View())
	s.WriteString("\n")

	switch {
	case m.loading:
		s.WriteString(fmt.Sprintf("\n%s Carregando notas...\n", m.spinner.View()))
	case len(m.visible) == 0:
		s.WriteString("\n")
		s.WriteString(emptyStyle.Render(m.emptyText()))
		s.WriteString("\n")
	case m.tab == domain.TabAll:
		s.WriteString(m.renderGroups(now))
	default:
		s.WriteString(m.renderFlat(now))
	}

	s.WriteString("\n")
	if m.refreshing && !m.loading {
		s.WriteString(fmt.Sprintf("%s Atualizando...\n", m.spinner.View()))
	}
	if m.err != "" {
		s.WriteString(common.ErrorStyle.Render(m.err) + "\n")
	} else if m.statusLine != "" {
		s.WriteString(common.SuccessStyle.Render(m.statusLine) + "\n")
	}
	switch m.confirm {
	case confirmDelete:
		s.WriteString(common.ErrorStyle.Render("Excluir esta nota? (y/n)") + "\n")
	case confirmLogout:
		s.WriteString(common.ErrorStyle.Render("Deseja sair da conta? (y/n)") + "\n")
	}

	body := s.String()
	if m.prompt != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.prompt.View(now), body)
	}
	return body
}

func (m Model) renderTabs(now time.Time) string {
	tabs := make([]string, 0, len(domain.Tabs))
	for _, tab := range domain.Tabs {
		label := tab.Label()
		switch tab {
		case domain.TabAll:
			label = fmt.Sprintf("%s (%d)", label, len(m.notes))
		case domain.TabUrgent:
			label = fmt.Sprintf("%s (%d)", label, domain.CountUrgent(m.notes, now))
		case domain.TabFavorites:
			label = fmt.Sprintf("%s (%d)", label, domain.CountFavorites(m.notes))
		}
		if tab == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m Model) emptyText() string {
	if m.search.Value() != "" {
		return "Nenhuma nota encontrada."
	}
	switch m.tab {
	case domain.TabUrgent:
		return "Nenhuma tarefa urgente. 🎉"
	case domain.TabFavorites:
		return "Nenhuma nota favorita ainda."
	default:
		return "Nenhuma nota ainda.\nPressione n para criar a primeira!"
	}
}

func (m Model) renderGroups(now time.Time) string {
	var s strings.Builder
	index := 0
	page := m.pageSize()
	for _, group := range domain.GroupByStatus(m.visible, now) {
		if index+len(group.Notes) <= m.offset || index >= m.offset+page {
			index += len(group.Notes)
			continue
		}
		s.WriteString(groupStyle.Foreground(common.StatusColor(group.Status)).
			Render(fmt.Sprintf("%s (%d)", group.Status.Label(), len(group.Notes))))
		s.WriteString("\n")
		for _, note := range group.Notes {
			if index >= m.offset && index < m.offset+page {
				s.WriteString(m.renderNote(note, index, now))
			}
			index++
		}
	}
	return s.String()
}

func (m Model) renderFlat(now time.Time) string {
	var s strings.Builder
	end := min(m.offset+m.pageSize(), len(m.visible))
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderNote(m.visible[i], i, now))
	}
	return s.String()
}

func (m Model) renderNote(note domain.Note, index int, now time.Time) string {
	cursor := "  "
	title := titleStyle.Render(note.Title)
	if index == m.selected {
		cursor = selectedStyle.Render("▸ ")
		title = selectedStyle.Render(note.Title)
	}

	star := ""
	if note.Favorite {
		star = " ★"
	}

	meta := []string{util.FormatDateSimple(note.CreatedAt)}
	if note.ReminderAt != nil {
		status := domain.Status(note, now)
		reminder := "⏰ " + util.FormatDateDisplay(note.ReminderAt)
		meta = append(meta, lipgloss.NewStyle().Foreground(common.StatusColor(status)).Render(reminder))
	}
	if note.RescheduleCount > 0 {
		meta = append(meta, fmt.Sprintf("↻ %d", note.RescheduleCount))
	}

	width := max(m.width-8, 20)
	preview := util.Truncate(strings.ReplaceAll(util.StripHTML(note.Content), "\n", " "), width)

	return fmt.Sprintf("%s%s %s%s\n    %s\n    %s\n",
		cursor, common.NoteSwatch(note.Color), title, star,
		common.MutedStyle.Render(strings.Join(meta, " • ")),
		preview)
}
