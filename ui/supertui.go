package ui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/ui/dashboard"
	"github.com/deemkeen/bnotas/ui/editnote"
	"github.com/deemkeen/bnotas/ui/header"
	"github.com/deemkeen/bnotas/ui/login"
	"github.com/deemkeen/bnotas/ui/resetpassword"
)

var (
	focusedModelStyle = lipgloss.NewStyle().
		Align(lipgloss.Left, lipgloss.Top).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(common.COLOR_LIGHTBLUE)).MarginLeft(1)
)

type MainModel struct {
	width  int
	height int
	state  common.SessionState

	repo    common.Repository
	prefs   common.Preferences
	feeds   common.FeedLinks
	monitor *domain.CriticalMonitor

	headerModel    header.Model
	loginModel     login.Model
	resetModel     resetpassword.Model
	dashboardModel dashboard.Model
	editModel      editnote.Model
}

// NewModel starts on the dashboard when the device has a stored session,
// on the login form otherwise.
func NewModel(repo common.Repository, prefs common.Preferences, width int, height int) MainModel {
	width = common.DefaultWindowWidth(width)
	height = common.DefaultWindowHeight(height)

	m := MainModel{
		width:   width,
		height:  height,
		repo:    repo,
		prefs:   prefs,
		monitor: domain.NewCriticalMonitor(),
		state:   common.LoginView,
	}
	m.headerModel = header.Model{Width: width}
	m.loginModel = login.New(repo, prefs, width, height)
	m.dashboardModel = dashboard.New(repo, m.monitor, width, height)
	m.editModel, _ = editnote.New(repo, width)
	m.resetModel = resetpassword.New(repo, "")

	if s := repo.Session(); s.Valid() {
		u := s.User
		m.headerModel.User = &u
		m.state = common.DashboardView
	}
	return m
}

// WithFeed shows the reminder feed address of the device once logged in.
func (m MainModel) WithFeed(feeds common.FeedLinks) MainModel {
	m.feeds = feeds
	if m.repo.Session().Valid() {
		m.headerModel.FeedURL = m.feedURL()
	}
	return m
}

func (m MainModel) feedURL() string {
	if m.feeds == nil {
		return ""
	}
	url, err := m.feeds.FeedURL(m.repo.DeviceKey())
	if err != nil {
		log.Printf("Could not resolve feed of %s: %v", m.repo.DeviceKey(), err)
		return ""
	}
	return url
}

// NewResetModel opens the password reset form for a token from a reset link.
func NewResetModel(repo common.Repository, prefs common.Preferences, token string, width int, height int) MainModel {
	m := NewModel(repo, prefs, width, height)
	m.resetModel = resetpassword.New(repo, token)
	m.state = common.ResetPasswordView
	return m
}

func (m MainModel) Init() tea.Cmd {
	switch m.state {
	case common.DashboardView:
		return m.dashboardModel.Init()
	case common.ResetPasswordView:
		return m.resetModel.Init()
	default:
		return m.loginModel.Init()
	}
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case common.LoggedInMsg:
		m.headerModel, _ = m.headerModel.Update(msg)
		m.headerModel.FeedURL = m.feedURL()
		// snoozes belong to the login session
		m.monitor = domain.NewCriticalMonitor()
		m.dashboardModel = dashboard.New(m.repo, m.monitor, m.width, m.height)
		m.state = common.DashboardView
		return m, m.dashboardModel.Init()

	case common.LoggedOutMsg:
		m.headerModel, _ = m.headerModel.Update(msg)
		m.dashboardModel = m.dashboardModel.Stop()
		m.loginModel = login.New(m.repo, m.prefs, m.width, m.height)
		m.state = common.LoginView
		return m, m.loginModel.Init()

	case common.EditNoteMsg:
		m.dashboardModel = m.dashboardModel.Stop()
		m.editModel, cmd = editnote.Load(m.repo, msg.Id, m.width)
		m.state = common.EditNoteView
		return m, cmd

	case common.SessionState:
		switch msg {
		case common.DashboardView, common.UpdateNoteList:
			if m.state == common.DashboardView {
				return m, nil
			}
			m.state = common.DashboardView
			m.dashboardModel, cmd = m.dashboardModel.Resume()
			return m, cmd
		case common.LoginView:
			m.loginModel = login.New(m.repo, m.prefs, m.width, m.height)
			m.state = common.LoginView
			return m, m.loginModel.Init()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.state == common.DashboardView && !m.dashboardModel.Capturing() {
				return m, tea.Quit
			}
		}
	}

	// Route non-keyboard messages to ALL sub-models
	// Keyboard messages only go to the active view
	if _, isKeyMsg := msg.(tea.KeyMsg); !isKeyMsg {
		m.headerModel, _ = m.headerModel.Update(msg)
		m.loginModel, cmd = m.loginModel.Update(msg)
		cmds = append(cmds, cmd)
		m.resetModel, cmd = m.resetModel.Update(msg)
		cmds = append(cmds, cmd)
		m.dashboardModel, cmd = m.dashboardModel.Update(msg)
		cmds = append(cmds, cmd)
		m.editModel, cmd = m.editModel.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	switch m.state {
	case common.LoginView:
		m.loginModel, cmd = m.loginModel.Update(msg)
	case common.ResetPasswordView:
		m.resetModel, cmd = m.resetModel.Update(msg)
	case common.DashboardView:
		m.dashboardModel, cmd = m.dashboardModel.Update(msg)
	case common.EditNoteView:
		m.editModel, cmd = m.editModel.Update(msg)
	}
	return m, cmd
}

func (m MainModel) View() string {
	switch m.state {
	case common.LoginView:
		return m.loginModel.ViewWithWidth(m.width, m.height)
	case common.ResetPasswordView:
		return m.resetModel.ViewWithWidth(m.width, m.height)
	}

	var s string
	s += m.headerModel.View() + "\n"

	availableHeight := m.height - 5 - m.headerModel.Lines() // header and help text
	panel := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(m.width - 4).
		MaxWidth(m.width - 4)

	var viewCommands string
	switch m.state {
	case common.EditNoteView:
		s += focusedModelStyle.Render(panel.Render(m.editModel.View()))
		viewCommands = "tab: próximo campo"
	default:
		s += focusedModelStyle.Render(panel.Render(m.dashboardModel.View()))
		viewCommands = "↑/↓: selecionar • enter: editar • n: nova • f: favorita • d: excluir • /: buscar • tab: abas • r: atualizar • x: sair da conta • q: fechar"
	}

	s += "\n" + common.HelpStyle.Render(fmt.Sprintf("%s > %s • ctrl-c: fechar", m.currentFocusedModel(), viewCommands))
	return s
}

func (m MainModel) currentFocusedModel() string {
	switch m.state {
	case common.EditNoteView:
		return "editor"
	case common.DashboardView:
		return "notas"
	case common.ResetPasswordView:
		return "redefinir senha"
	default:
		return "login"
	}
}

// State is the screen currently shown.
func (m MainModel) State() common.SessionState {
	return m.state
}
