package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tinker"
	bt "github.com/fwojciec/tinker/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(tinker.DefaultTheme())

	assert.Equal(t, lipgloss.Color("4"), styles.Prompt.GetForeground())
	assert.True(t, styles.Prompt.GetBold())
	assert.Equal(t, lipgloss.Color("8"), styles.Thinking.GetForeground())
	assert.True(t, styles.Thinking.GetFaint())
	assert.Equal(t, lipgloss.Color("3"), styles.ToolCall.GetForeground())
	assert.Equal(t, lipgloss.Color("6"), styles.ToolResult.GetForeground())
	assert.Equal(t, lipgloss.Color("1"), styles.Error.GetForeground())
	assert.Equal(t, lipgloss.Color("2"), styles.Success.GetForeground())
	assert.Equal(t, lipgloss.Color("8"), styles.Muted.GetForeground())
}

func TestNewStylesNegativeIndexYieldsNoColor(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(tinker.Theme{Prompt: -1})
	assert.Equal(t, lipgloss.NoColor{}, styles.Prompt.GetForeground())
}
