package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tinker"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Prompt     lipgloss.Style
	Thinking   lipgloss.Style
	ToolCall   lipgloss.Style
	ToolResult lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Muted      lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t tinker.Theme) Styles {
	return Styles{
		Prompt:     lipgloss.NewStyle().Foreground(ansiColor(t.Prompt)).Bold(true),
		Thinking:   lipgloss.NewStyle().Foreground(ansiColor(t.Thinking)).Faint(true),
		ToolCall:   lipgloss.NewStyle().Foreground(ansiColor(t.ToolCall)),
		ToolResult: lipgloss.NewStyle().Foreground(ansiColor(t.ToolResult)),
		Error:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:    lipgloss.NewStyle().Foreground(ansiColor(t.Success)).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
