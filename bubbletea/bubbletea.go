// Package bubbletea provides a Bubble Tea terminal UI that runs one agent
// prompt, shows its progress and exits with the answer on screen.
package bubbletea

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tinker"
)

// AgentFunc runs the agent loop. The onEvent callback is called for each
// streaming event. The function blocks until the agent completes or the
// context is cancelled.
type AgentFunc func(ctx context.Context, session *tinker.Session, onEvent func(tinker.Event)) error

// Run runs the program until the agent finishes or the user quits, and
// returns the final model. Cancelling ctx stops the agent; the program
// exits once the agent has returned.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	p := tea.NewProgram(m, opts...)
	go func() {
		<-ctx.Done()
		p.Send(interruptMsg{})
	}()
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("bubbletea: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("bubbletea: unexpected final model %T", final)
	}
	return fm, nil
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event tinker.Event
}

// AgentDoneMsg signals that the agent loop has completed.
type AgentDoneMsg struct {
	Err error
}

// interruptMsg asks a running agent to stop, as the first Ctrl+C does.
type interruptMsg struct{}
