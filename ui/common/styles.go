package common

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/deemkeen/bnotas/domain"
)

const (
	COLOR_GREY      = "241"
	COLOR_MAGENTA   = "170"
	COLOR_LIGHTBLUE = "69"
	COLOR_PURPLE    = "#7D56F4"
	COLOR_RED       = "#ff5252"
	COLOR_AMBER     = "#ffc107"
	COLOR_GREEN     = "#28a745"
)

var (
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_GREY)).Padding(0, 2)
	CaptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_MAGENTA)).Padding(1, 2)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_RED)).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_GREEN)).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_GREY)).Italic(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(COLOR_LIGHTBLUE)).Bold(true)

	FormStyle = lipgloss.NewStyle().
			Align(lipgloss.Left, lipgloss.Center).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(COLOR_PURPLE)).
			Padding(1, 3)
)

// StatusColor is the accent of a note status.
func StatusColor(s domain.NoteStatus) lipgloss.Color {
	switch s {
	case domain.StatusOverdue:
		return lipgloss.Color(COLOR_RED)
	case domain.StatusUrgent:
		return lipgloss.Color(COLOR_AMBER)
	default:
		return lipgloss.Color(COLOR_GREY)
	}
}

// NoteSwatch renders a small block in the note's post-it color.
func NoteSwatch(color string) string {
	if color == "" {
		color = domain.DefaultColor
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

// StrengthMeter renders the password strength bar with its label.
func StrengthMeter(password string) string {
	strength := domain.GetPasswordStrength(password)
	if strength.Score == 0 {
		return ""
	}
	const cells = 12
	filled := cells * strength.Score / 100
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(strength.Color)).Render(strings.Repeat("█", filled)) +
		MutedStyle.Render(strings.Repeat("░", cells-filled))
	return fmt.Sprintf("%s %s", bar, lipgloss.NewStyle().Foreground(lipgloss.Color(strength.Color)).Render(strength.Label))
}

// CriteriaChecklist renders the password requirements with ✓ or ✕ marks.
func CriteriaChecklist(password string) string {
	c := domain.ValidatePassword(password)
	item := func(ok bool, text string) string {
		if ok {
			return SuccessStyle.Render("✓ ") + text
		}
		return ErrorStyle.Render("✕ ") + text
	}
	return strings.Join([]string{
		item(c.MinLength, "Mínimo de 8 caracteres"),
		item(c.HasUpperCase, "Uma letra maiúscula"),
		item(c.HasSpecialChar, "Um caractere especial"),
	}, "\n")
}

func DefaultWindowWidth(width int) int {
	if width <= 0 {
		return 80
	}
	return width
}

func DefaultWindowHeight(height int) int {
	if height <= 0 {
		return 24
	}
	return height
}
