package resetpassword

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
)

// RedirectDelay is how long the success message shows before the login form.
var RedirectDelay = 3 * time.Second

type Model struct {
	repo     common.Repository
	token    string
	password textinput.Model
	confirm  textinput.Model
	focus    int
	busy     bool
	done     bool
	err      string
}

type resetResultMsg struct {
	err error
}

// New builds the form for a reset token. Without a token the form cannot
// be submitted.
func New(repo common.Repository, token string) Model {
	password := textinput.New()
	password.Placeholder = "Nova senha"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40
	password.Focus()

	confirm := textinput.New()
	confirm.Placeholder = "Confirmar nova senha"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '•'
	confirm.Width = 40

	m := Model{
		repo:     repo,
		token:    strings.TrimSpace(token),
		password: password,
		confirm:  confirm,
	}
	if m.token == "" {
		m.err = domain.ErrMissingResetToken.Error()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// CanSubmit reports whether a token is present.
func (m Model) CanSubmit() bool {
	return m.token != ""
}

func reset(repo common.Repository, token, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		err := repo.ResetPassword(ctx, token, password)
		if err != nil {
			log.Printf("Password reset failed: %v", err)
		}
		return resetResultMsg{err: err}
	}
}

func toLogin() tea.Cmd {
	return tea.Tick(RedirectDelay, func(time.Time) tea.Msg {
		return common.LoginView
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resetResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.done = true
		m.err = ""
		return m, toLogin()

	case tea.KeyMsg:
		if m.busy || m.done {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return common.LoginView }
		case "tab", "shift+tab", "up", "down":
			m.toggleFocus()
			return m, nil
		case "enter":
			if m.focus == 0 {
				m.toggleFocus()
				return m, nil
			}
			return m.submit()
		}

		var cmd tea.Cmd
		if m.focus == 0 {
			m.password, cmd = m.password.Update(msg)
		} else {
			m.confirm, cmd = m.confirm.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.password.Blur()
		m.confirm.Focus()
	} else {
		m.focus = 0
		m.confirm.Blur()
		m.password.Focus()
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	if !m.CanSubmit() {
		m.err = domain.ErrMissingResetToken.Error()
		return m, nil
	}
	password := m.password.Value()
	if password != m.confirm.Value() {
		m.err = domain.ErrPasswordMismatch.Error()
		return m, nil
	}
	if !domain.IsStrongPassword(password) {
		m.err = domain.ErrWeakPassword.Error()
		return m, nil
	}
	m.err = ""
	m.busy = true
	return m, reset(m.repo, m.token, password)
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("Redefinir senha"))
	s.WriteString("\n")

	if m.done {
		s.WriteString(common.SuccessStyle.Render("Senha alterada com sucesso! Redirecionando para o login..."))
		return s.String()
	}

	if !m.CanSubmit() {
		s.WriteString(common.ErrorStyle.Render(m.err))
		s.WriteString("\n\n")
		s.WriteString(common.MutedStyle.Render("Solicite um novo link de recuperação na tela de login."))
		s.WriteString("\n\n")
		s.WriteString(common.HelpStyle.UnsetPadding().Render("esc: ir para o login"))
		return s.String()
	}

	s.WriteString(common.LabelStyle.Render("Nova senha") + "\n" + m.password.View() + "\n")
	if meter := common.StrengthMeter(m.password.Value()); meter != "" {
		s.WriteString(meter + "\n")
	}
	s.WriteString(common.CriteriaChecklist(m.password.Value()) + "\n\n")
	s.WriteString(common.LabelStyle.Render("Confirmar senha") + "\n" + m.confirm.View() + "\n\n")

	switch {
	case m.busy:
		s.WriteString(common.MutedStyle.Render("Aguarde..."))
	case m.err != "":
		s.WriteString(common.ErrorStyle.Render(m.err))
	}
	s.WriteString("\n\n")
	s.WriteString(common.HelpStyle.UnsetPadding().Render("enter: alterar senha • tab: próximo campo • esc: voltar"))
	return s.String()
}

func (m Model) ViewWithWidth(termWidth, termHeight int) string {
	contentWidth := min(max(termWidth-8, 40), 80)
	bordered := common.FormStyle.Width(contentWidth).Render(m.View())
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, bordered)
}
