package header

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/util"
)

type Model struct {
	Width   int
	User    *domain.User
	FeedURL string
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	case common.LoggedInMsg:
		if msg.Session != nil {
			u := msg.Session.User
			m.User = &u
		}
	case common.LoggedOutMsg:
		m.User = nil
		m.FeedURL = ""
	}
	return m, nil
}

func (m Model) View() string {
	bar := GetHeaderStyle(m.User, m.Width)
	if m.FeedURL == "" {
		return bar
	}
	return bar + "\n" + common.MutedStyle.Render("Feed de lembretes: "+m.FeedURL)
}

// Lines is the height of View.
func (m Model) Lines() int {
	if m.FeedURL == "" {
		return 1
	}
	return 2
}

// Greeting is the salutation shown for a user.
func Greeting(u *domain.User) string {
	if u == nil {
		return fmt.Sprintf("Olá, %s!", domain.DefaultDisplayName)
	}
	return fmt.Sprintf("Olá, %s!", u.DisplayName())
}

func GetHeaderStyle(u *domain.User, width int) string {
	// 3 boxes with one char of horizontal padding on each side
	overhead := 6
	availableWidth := width - overhead

	if availableWidth < 40 {
		availableWidth = 40
	}

	greetingWidth := availableWidth / 3
	versionWidth := availableWidth / 3
	emailWidth := availableWidth - greetingWidth - versionWidth

	greeting := lipgloss.
		NewStyle().
		SetString(Greeting(u)).
		Align(lipgloss.Left).
		Background(lipgloss.Color(common.COLOR_PURPLE)).
		Padding(0, 1).
		Width(greetingWidth).
		Bold(true).
		String()

	version := lipgloss.
		NewStyle().
		SetString(util.GetNameAndVersion()).
		Align(lipgloss.Center).
		Width(versionWidth).
		Background(lipgloss.Color(common.COLOR_GREY)).
		Padding(0, 1).
		String()

	email := ""
	if u != nil {
		email = u.Email
	}
	account := lipgloss.
		NewStyle().
		SetString(email).
		Background(lipgloss.Color(common.COLOR_MAGENTA)).
		Padding(0, 1).
		Align(lipgloss.Right).
		Width(emailWidth).
		String()

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		greeting,
		version,
		account,
	)
}
