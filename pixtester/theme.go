package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JeffreyRichter/pixtester/operations"
	"github.com/JeffreyRichter/pixtester/session"
)

// Minimum window dimensions enforced across the UI.
const (
	minWindowWidth  = 80
	minWindowHeight = 18
)

// Theme centralizes colors and styles to avoid scattered globals.
type Theme struct {
	ColorNormal    lipgloss.Color
	ColorHighlight lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorError     lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSpecial   lipgloss.Color

	HeaderBase    lipgloss.Style
	HeaderActive  lipgloss.Style
	Label         lipgloss.Style
	LabelFocused  lipgloss.Style
	Separator     lipgloss.Style
	StatusIdle    lipgloss.Style
	StatusRunning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	LogTimestamp  lipgloss.Style
	LogSpecial    lipgloss.Style
	ModalBorder   lipgloss.Style
}

func NewTheme() *Theme {
	t := &Theme{
		ColorNormal:    lipgloss.Color("15"),
		ColorHighlight: lipgloss.Color("4"),
		ColorSuccess:   lipgloss.Color("2"),
		ColorWarning:   lipgloss.Color("3"),
		ColorError:     lipgloss.Color("1"),
		ColorBorder:    lipgloss.Color("8"),
		ColorSpecial:   lipgloss.Color("5"),
	}

	t.HeaderBase = lipgloss.NewStyle().Foreground(t.ColorNormal)
	t.HeaderActive = lipgloss.NewStyle().Bold(true).Foreground(t.ColorHighlight)
	t.Label = lipgloss.NewStyle().Foreground(t.ColorBorder)
	t.LabelFocused = lipgloss.NewStyle().Bold(true).Foreground(t.ColorHighlight)
	t.Separator = lipgloss.NewStyle().Foreground(t.ColorBorder)
	t.StatusIdle = lipgloss.NewStyle().Foreground(t.ColorBorder)
	t.StatusRunning = lipgloss.NewStyle().Foreground(t.ColorHighlight)
	t.StatusSuccess = lipgloss.NewStyle().Foreground(t.ColorSuccess)
	t.StatusWarning = lipgloss.NewStyle().Foreground(t.ColorWarning)
	t.StatusError = lipgloss.NewStyle().Foreground(t.ColorError)
	t.LogTimestamp = lipgloss.NewStyle().Foreground(t.ColorBorder)
	t.LogSpecial = lipgloss.NewStyle().Bold(true).Foreground(t.ColorSpecial)
	t.ModalBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.ColorHighlight).
		Padding(1).
		Align(lipgloss.Center)

	return t
}

// Status picks the style of a status slot.
func (t *Theme) Status(st session.Status) lipgloss.Style {
	switch st.State {
	case session.Running:
		return t.StatusRunning
	case session.Succeeded:
		return t.StatusSuccess
	case session.Failed:
		return t.StatusError
	default:
		return t.StatusIdle
	}
}

// LogLine picks the style of a log entry from its leading marker.
func (t *Theme) LogLine(text string) lipgloss.Style {
	switch {
	case text == operations.Separator:
		return t.Separator
	case strings.HasPrefix(text, "❌"):
		return t.StatusError
	case strings.HasPrefix(text, "⚠️"), strings.HasPrefix(text, "⏰"), strings.HasPrefix(text, "⏳"):
		return t.StatusWarning
	case strings.HasPrefix(text, "✅"):
		return t.StatusSuccess
	case strings.HasPrefix(text, "🔥"):
		return t.LogSpecial
	default:
		return lipgloss.NewStyle()
	}
}
