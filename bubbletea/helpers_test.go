package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tinker"
	bt "github.com/fwojciec/tinker/bubbletea"
	"github.com/stretchr/testify/require"
)

// newSession returns a session holding the prompt.
func newSession(prompt string) *tinker.Session {
	return &tinker.Session{Messages: []tinker.Message{tinker.NewUserMessage(prompt)}}
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// isQuit runs cmd and reports whether it produced tea.QuitMsg.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// nopAgent is a mock agent that does nothing.
func nopAgent(_ context.Context, _ *tinker.Session, _ func(tinker.Event)) error {
	return nil
}
