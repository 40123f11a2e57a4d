package login

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/util"
)

// SwitchDelay is how long a success message stays before the form changes.
var SwitchDelay = 2 * time.Second

type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
	ModeForgot
)

const (
	fieldName = iota
	fieldSurname
	fieldPhone
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

var errEmptyCredentials = errors.New("Preencha e-mail e senha")

var labels = [fieldCount]string{"Nome", "Sobrenome", "Telefone", "E-mail", "Senha", "Confirmar senha"}

type Model struct {
	repo  common.Repository
	prefs common.Preferences

	mode     Mode
	inputs   [fieldCount]textinput.Model
	focus    int
	remember bool

	busy    bool
	err     string
	success string
	// generation of the pending mode switch, a new submit cancels it
	switchGen int

	width  int
	height int
}

type loginResultMsg struct {
	session *domain.AuthSession
	err     error
}

type submitResultMsg struct {
	mode Mode
	err  error
}

type switchModeMsg struct {
	gen  int
	mode Mode
}

type savedEmailMsg struct {
	email string
}

func New(repo common.Repository, prefs common.Preferences, width, height int) Model {
	m := Model{repo: repo, prefs: prefs, width: width, height: height}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "  "
		ti.Width = 40
		ti.CharLimit = 100
		m.inputs[i] = ti
	}
	m.inputs[fieldEmail].Placeholder = "voce@exemplo.com"
	m.inputs[fieldPhone].Placeholder = "(11) 99999-9999"
	m.inputs[fieldPhone].CharLimit = 20
	for _, f := range []int{fieldPassword, fieldConfirm} {
		m.inputs[f].EchoMode = textinput.EchoPassword
		m.inputs[f].EchoCharacter = '•'
	}
	m.setMode(ModeLogin)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, readSavedEmail(m.prefs, m.repo.DeviceKey()))
}

func readSavedEmail(prefs common.Preferences, deviceKey string) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		email, err := prefs.ReadSavedEmail(deviceKey)
		if err != nil {
			log.Printf("Could not read saved email: %v", err)
		}
		return savedEmailMsg{email: email}
	}
}

// fields lists the inputs shown in the current mode, in tab order.
func (m Model) fields() []int {
	switch m.mode {
	case ModeRegister:
		return []int{fieldName, fieldSurname, fieldPhone, fieldEmail, fieldPassword, fieldConfirm}
	case ModeForgot:
		return []int{fieldEmail}
	default:
		return []int{fieldEmail, fieldPassword}
	}
}

func (m *Model) setMode(mode Mode) tea.Cmd {
	m.mode = mode
	m.err = ""
	m.busy = false
	for _, f := range []int{fieldPassword, fieldConfirm} {
		m.inputs[f].SetValue("")
	}
	return m.setFocus(0)
}

func (m *Model) setFocus(i int) tea.Cmd {
	fields := m.fields()
	m.focus = (i + len(fields)) % len(fields)
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[fields[m.focus]].Focus()
}

func (m Model) value(field int) string {
	return m.inputs[field].Value()
}

func login(repo common.Repository, prefs common.Preferences, email, password string, remember bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		session, err := repo.Login(ctx, email, password)
		if err != nil {
			log.Printf("Login failed for %s: %v", email, err)
			return loginResultMsg{err: err}
		}
		if prefs != nil {
			if remember {
				err = prefs.SaveEmail(repo.DeviceKey(), strings.TrimSpace(email))
			} else {
				err = prefs.ForgetEmail(repo.DeviceKey())
			}
			if err != nil {
				log.Printf("Could not update saved email: %v", err)
			}
		}
		return loginResultMsg{session: session}
	}
}

func register(repo common.Repository, r domain.Registration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		err := repo.Register(ctx, r)
		if err != nil {
			log.Printf("Register failed for %s: %v", r.Email, err)
		}
		return submitResultMsg{mode: ModeRegister, err: err}
	}
}

func forgot(repo common.Repository, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := common.RequestContext()
		defer cancel()
		err := repo.ForgotPassword(ctx, email)
		if err != nil {
			log.Printf("Forgot password failed for %s: %v", email, err)
		}
		return submitResultMsg{mode: ModeForgot, err: err}
	}
}

func switchAfter(gen int, mode Mode) tea.Cmd {
	return tea.Tick(SwitchDelay, func(time.Time) tea.Msg {
		return switchModeMsg{gen: gen, mode: mode}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedEmailMsg:
		if msg.email != "" && m.value(fieldEmail) == "" {
			m.inputs[fieldEmail].SetValue(msg.email)
			m.remember = true
			if m.mode == ModeLogin {
				cmd := m.setFocus(1)
				return m, cmd
			}
		}
		return m, nil

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		session := msg.session
		return m, func() tea.Msg { return common.LoggedInMsg{Session: session} }

	case submitResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		if msg.mode == ModeRegister {
			m.success = "Cadastro realizado! Faça login."
		} else {
			m.success = "Link de recuperação enviado para seu e-mail."
		}
		m.switchGen++
		return m, switchAfter(m.switchGen, ModeLogin)

	case switchModeMsg:
		if msg.gen != m.switchGen {
			return m, nil
		}
		m.success = ""
		cmd := m.setMode(msg.mode)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+n":
		m.switchGen++
		m.success = ""
		cmd := m.setMode(ModeRegister)
		return m, cmd
	case "ctrl+f":
		m.switchGen++
		m.success = ""
		cmd := m.setMode(ModeForgot)
		return m, cmd
	case "esc":
		if m.mode != ModeLogin {
			m.switchGen++
			m.success = ""
			cmd := m.setMode(ModeLogin)
			return m, cmd
		}
		return m, nil
	case "ctrl+r":
		if m.mode == ModeLogin {
			m.remember = !m.remember
		}
		return m, nil
	case "tab", "down":
		cmd := m.setFocus(m.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.setFocus(m.focus - 1)
		return m, cmd
	case "enter":
		if m.focus < len(m.fields())-1 {
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		}
		return m.submit()
	}

	field := m.fields()[m.focus]
	var cmd tea.Cmd
	m.inputs[field], cmd = m.inputs[field].Update(msg)
	return m, cmd
}

// submit validates locally and only then calls the service.
func (m Model) submit() (Model, tea.Cmd) {
	m.err = ""
	m.success = ""
	m.switchGen++

	switch m.mode {
	case ModeRegister:
		r := domain.Registration{
			Name:     m.value(fieldName),
			Surname:  m.value(fieldSurname),
			Phone:    m.value(fieldPhone),
			Email:    m.value(fieldEmail),
			Password: m.value(fieldPassword),
			Confirm:  m.value(fieldConfirm),
		}
		if err := r.Validate(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.busy = true
		return m, register(m.repo, r)

	case ModeForgot:
		email := strings.TrimSpace(m.value(fieldEmail))
		if email == "" {
			m.err = "Informe seu e-mail"
			return m, nil
		}
		m.busy = true
		return m, forgot(m.repo, email)

	default:
		email, password := m.value(fieldEmail), m.value(fieldPassword)
		if strings.TrimSpace(email) == "" || password == "" {
			m.err = errEmptyCredentials.Error()
			return m, nil
		}
		m.busy = true
		return m, login(m.repo, m.prefs, email, password, m.remember)
	}
}

func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) View() string {
	var s strings.Builder

	titles := map[Mode]string{
		ModeLogin:    "Entrar",
		ModeRegister: "Criar conta",
		ModeForgot:   "Recuperar senha",
	}
	s.WriteString(fmt.Sprintf("BNOTAS v%s\n", util.GetVersion()))
	s.WriteString(common.CaptionStyle.Render(titles[m.mode]))
	s.WriteString("\n")

	for i, f := range m.fields() {
		label := labels[f]
		if i == m.focus {
			label = common.LabelStyle.Render("› " + label)
		} else {
			label = "  " + label
		}
		s.WriteString(label + "\n" + m.inputs[f].View() + "\n")
		if f == fieldPassword && m.mode == ModeRegister {
			if meter := common.StrengthMeter(m.value(fieldPassword)); meter != "" {
				s.WriteString("  " + meter + "\n")
			}
			s.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(common.CriteriaChecklist(m.value(fieldPassword))) + "\n")
		}
	}

	if m.mode == ModeLogin {
		box := "[ ]"
		if m.remember {
			box = "[x]"
		}
		s.WriteString(fmt.Sprintf("\n  %s Lembrar meu e-mail\n", box))
	}

	s.WriteString("\n")
	switch {
	case m.busy:
		s.WriteString(common.MutedStyle.Render("Aguarde..."))
	case m.err != "":
		s.WriteString(common.ErrorStyle.Render(m.err))
	case m.success != "":
		s.WriteString(common.SuccessStyle.Render(m.success))
	}
	s.WriteString("\n\n")

	var help string
	switch m.mode {
	case ModeLogin:
		help = "enter: entrar • ctrl+r: lembrar e-mail • ctrl+n: criar conta • ctrl+f: esqueci a senha • ctrl+c: sair"
	default:
		help = "enter: enviar • tab: próximo campo • esc: voltar"
	}
	s.WriteString(common.HelpStyle.UnsetPadding().Render(help))

	return s.String()
}

// ViewWithWidth centers the form in the terminal.
func (m Model) ViewWithWidth(termWidth, termHeight int) string {
	contentWidth := min(max(termWidth-8, 40), 90)
	bordered := common.FormStyle.Width(contentWidth).Render(m.View())
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, bordered)
}
