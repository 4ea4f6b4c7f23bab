package bubbletea

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tinker"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for a single agent run. The agent starts in
// Init and the program quits when it returns.
type Model struct {
	// Spinner animates the status line while the agent runs. Exported for
	// test access.
	Spinner spinner.Model

	run     AgentFunc
	session *tinker.Session
	theme   tinker.Theme
	styles  Styles
	answer  func(*tinker.Session) string

	blocks []MessageBlock
	width  int

	// Active blocks receive deltas until a tool call or result starts a new
	// section of the transcript.
	activeText     *TextBlock
	activeThinking *ThinkingBlock
	toolCalls      map[string]*ToolCallBlock

	ctx         context.Context
	cancel      context.CancelFunc
	eventCh     chan tinker.Event
	doneCh      chan error
	running     bool
	interrupted bool
	err         error
	result      string
}

// Option configures a Model.
type Option func(*Model)

// WithAnswer sets how the final answer is read from the finished session.
// Default is Session.LastAssistantText.
func WithAnswer(fn func(*tinker.Session) string) Option {
	return func(m *Model) { m.answer = fn }
}

// New creates a Model that will run the agent on session. Messages already in
// the session, normally the prompt, are rendered first.
func New(run AgentFunc, session *tinker.Session, theme tinker.Theme, opts ...Option) Model {
	styles := NewStyles(theme)
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		Spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Muted)),
		run:       run,
		session:   session,
		theme:     theme,
		styles:    styles,
		answer:    (*tinker.Session).LastAssistantText,
		width:     80,
		toolCalls: make(map[string]*ToolCallBlock),
		ctx:       ctx,
		cancel:    cancel,
		eventCh:   make(chan tinker.Event, 256),
		doneCh:    make(chan error, 1),
		running:   true,
	}
	for _, o := range opts {
		o(&m)
	}
	return m.renderSession()
}

// Running returns whether the agent is still running.
func (m Model) Running() bool { return m.running }

// Err returns the agent error, if any. Cancellation is not an error.
func (m Model) Err() error { return m.err }

// Interrupted reports whether the user cancelled the run.
func (m Model) Interrupted() bool { return m.interrupted }

// Result returns the final answer once the agent has finished successfully.
func (m Model) Result() string { return m.result }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		startAgent(m.run, m.ctx, m.session, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.interrupt()
		}
		return m, nil

	case interruptMsg:
		return m.interrupt()

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		return m, listenForEvent(m.eventCh, m.doneCh)

	case AgentDoneMsg:
		m.running = false
		m.cancel()
		switch {
		case msg.Err == nil:
			m.result = m.answer(m.session)
		case errors.Is(msg.Err, context.Canceled) && m.interrupted:
		default:
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
		}
		return m, tea.Quit
	}
	return m, nil
}

// interrupt cancels a running agent. Once the agent is stopping or done, a
// further interrupt quits.
func (m Model) interrupt() (tea.Model, tea.Cmd) {
	if m.running && !m.interrupted {
		m.interrupted = true
		m.cancel()
		return m, nil
	}
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.width))
	}
	if len(m.blocks) > 0 {
		b.WriteString("\n")
	}
	if status := m.statusLine(); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.running && m.interrupted:
		return m.Spinner.View() + " " + m.styles.Muted.Render("Cancelling... (ctrl+c again to quit)")
	case m.running:
		return m.Spinner.View() + " " + m.styles.Muted.Render("Working... (ctrl+c to cancel)")
	case m.interrupted:
		return m.styles.Muted.Render("Interrupted.")
	case m.result != "":
		return m.styles.Success.Render("Answer: ") + m.result
	}
	return ""
}

// renderSession creates blocks from existing session messages.
func (m Model) renderSession() Model {
	for _, msg := range m.session.Messages {
		switch msg := msg.(type) {
		case tinker.UserMessage:
			for _, b := range msg.Content {
				if tb, ok := b.(tinker.TextBlock); ok {
					m.blocks = append(m.blocks, NewUserBlock(tb.Text, m.styles))
				}
			}
		case tinker.AssistantMessage:
			for _, b := range msg.Content {
				switch cb := b.(type) {
				case tinker.TextBlock:
					block := NewTextBlock(m.theme)
					block.Append(cb.Text)
					m.blocks = append(m.blocks, block)
				case tinker.ThinkingBlock:
					block := NewThinkingBlock(m.styles)
					block.Append(cb.Thinking)
					m.blocks = append(m.blocks, block)
				case tinker.ToolCallBlock:
					block := NewToolCallBlock(cb.ID, cb.Name, m.styles)
					block.Finalize(cb)
					m.blocks = append(m.blocks, block)
				}
			}
		case tinker.ToolResultMessage:
			m.blocks = append(m.blocks, NewToolResultBlock(msg.ToolName, msg.Text(), msg.IsError, m.styles))
		}
	}
	return m
}

// processEvent routes a streaming event to the appropriate block.
func (m Model) processEvent(evt tinker.Event) Model {
	switch e := evt.(type) {
	case tinker.EventTextDelta:
		if m.activeText == nil {
			m.activeText = NewTextBlock(m.theme)
			m.blocks = append(m.blocks, m.activeText)
		}
		m.activeText.Append(e.Delta)
	case tinker.EventThinkingDelta:
		if m.activeThinking == nil {
			m.activeThinking = NewThinkingBlock(m.styles)
			m.blocks = append(m.blocks, m.activeThinking)
		}
		m.activeThinking.Append(e.Delta)
	case tinker.EventToolCallBegin:
		m.activeText, m.activeThinking = nil, nil
		b := NewToolCallBlock(e.ID, e.Name, m.styles)
		m.blocks = append(m.blocks, b)
		m.toolCalls[e.ID] = b
	case tinker.EventToolCallEnd:
		b, ok := m.toolCalls[e.Call.ID]
		if !ok {
			b = NewToolCallBlock(e.Call.ID, e.Call.Name, m.styles)
			m.blocks = append(m.blocks, b)
			m.toolCalls[e.Call.ID] = b
		}
		b.Finalize(e.Call)
	case tinker.EventToolResult:
		m.activeText, m.activeThinking = nil, nil
		m.blocks = append(m.blocks, NewToolResultBlock(e.ToolName, e.Content, e.IsError, m.styles))
	}
	return m
}

// startAgent runs the agent loop in a goroutine and signals completion.
func startAgent(run AgentFunc, ctx context.Context, session *tinker.Session, eventCh chan<- tinker.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, session, func(e tinker.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns AgentDoneMsg.
func listenForEvent(ch <-chan tinker.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return AgentDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}
