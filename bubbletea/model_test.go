package bubbletea_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/tinker"
	bt "github.com/fwojciec/tinker/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopAgent, newSession("what is the sum of 40 and 2?"), tinker.DefaultTheme())

	assert.True(t, m.Running())
	assert.NoError(t, m.Err())
	assert.False(t, m.Interrupted())
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "> what is the sum of 40 and 2?")
	assert.Contains(t, view, "Working...")
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("events render as blocks", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("sum"), tinker.DefaultTheme())
		call := tinker.ToolCallBlock{ID: "call_1", Name: "addition", Arguments: json.RawMessage(`{"x":40,"y":2}`)}
		for _, evt := range []tinker.Event{
			tinker.EventThinkingDelta{Delta: "I should add."},
			tinker.EventToolCallBegin{ID: "call_1", Name: "addition"},
			tinker.EventToolCallEnd{Call: call},
			tinker.EventToolResult{ID: "call_1", ToolName: "addition", Content: "42"},
			tinker.EventTextDelta{Delta: "The answer "},
			tinker.EventTextDelta{Delta: "is 42."},
		} {
			m, _ = updateModel(t, m, bt.StreamEventMsg{Event: evt})
		}

		view := ansi.Strip(m.View())
		assert.Contains(t, view, "I should add.")
		assert.Contains(t, view, "▸ addition")
		assert.Contains(t, view, `{"x":40,"y":2}`)
		assert.Contains(t, view, "✓ addition")
		assert.Contains(t, view, "The answer is 42.")
	})

	t.Run("tool error result is marked", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("x"), tinker.DefaultTheme())
		m, _ = updateModel(t, m, bt.StreamEventMsg{Event: tinker.EventToolResult{
			ID: "call_1", ToolName: "to_int", Content: `invalid literal for int with base 10: "abc"`, IsError: true,
		}})
		view := ansi.Strip(m.View())
		assert.Contains(t, view, "✗ to_int")
		assert.Contains(t, view, "invalid literal")
	})

	t.Run("tool call end without begin still renders", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("x"), tinker.DefaultTheme())
		m, _ = updateModel(t, m, bt.StreamEventMsg{Event: tinker.EventToolCallEnd{
			Call: tinker.ToolCallBlock{ID: "c", Name: "get_weather", Arguments: json.RawMessage(`{"location":"Paris"}`)},
		}})
		assert.Contains(t, ansi.Strip(m.View()), "▸ get_weather")
	})

	t.Run("text after tool result starts a new block", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("x"), tinker.DefaultTheme())
		for _, evt := range []tinker.Event{
			tinker.EventTextDelta{Delta: "before"},
			tinker.EventToolResult{ID: "c", ToolName: "addition", Content: "42"},
			tinker.EventTextDelta{Delta: "after"},
		} {
			m, _ = updateModel(t, m, bt.StreamEventMsg{Event: evt})
		}
		view := ansi.Strip(m.View())
		before := bytes.Index([]byte(view), []byte("before"))
		result := bytes.Index([]byte(view), []byte("✓ addition"))
		after := bytes.Index([]byte(view), []byte("after"))
		assert.Less(t, before, result)
		assert.Less(t, result, after)
	})

	t.Run("done quits with answer", func(t *testing.T) {
		t.Parallel()

		session := newSession("sum")
		session.Messages = append(session.Messages, tinker.AssistantMessage{
			Content: []tinker.ContentBlock{tinker.TextBlock{Text: "42"}},
		})
		m := bt.New(nopAgent, session, tinker.DefaultTheme())
		m, cmd := updateModel(t, m, bt.AgentDoneMsg{})

		assert.True(t, isQuit(cmd))
		assert.False(t, m.Running())
		assert.Equal(t, "42", m.Result())
		assert.Contains(t, ansi.Strip(m.View()), "Answer: 42")
	})

	t.Run("custom answer func", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("sum"), tinker.DefaultTheme(),
			bt.WithAnswer(func(*tinker.Session) string { return "from final_answer" }))
		m, _ = updateModel(t, m, bt.AgentDoneMsg{})
		assert.Equal(t, "from final_answer", m.Result())
	})

	t.Run("agent error is shown", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("sum"), tinker.DefaultTheme())
		m, cmd := updateModel(t, m, bt.AgentDoneMsg{Err: errors.New("connection refused")})

		assert.True(t, isQuit(cmd))
		require.EqualError(t, m.Err(), "connection refused")
		assert.Contains(t, ansi.Strip(m.View()), "Error: connection refused")
	})

	t.Run("first ctrl+c cancels, second quits", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("sum"), tinker.DefaultTheme())
		m, cmd := updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.Nil(t, cmd)
		assert.True(t, m.Interrupted())
		assert.True(t, m.Running())
		assert.Contains(t, ansi.Strip(m.View()), "Cancelling...")

		_, cmd = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		assert.True(t, isQuit(cmd))
	})

	t.Run("cancellation after interrupt is not an error", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("sum"), tinker.DefaultTheme())
		m, _ = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		m, cmd := updateModel(t, m, bt.AgentDoneMsg{Err: context.Canceled})

		assert.True(t, isQuit(cmd))
		assert.NoError(t, m.Err())
		assert.Empty(t, m.Result())
		assert.Contains(t, ansi.Strip(m.View()), "Interrupted.")
	})

	t.Run("window size sets width", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopAgent, newSession("word1 word2 word3 word4 word5"), tinker.DefaultTheme())
		m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 12, Height: 10})
		for _, line := range bytes.Split([]byte(ansi.Strip(m.View())), []byte("\n")) {
			if bytes.Contains(line, []byte("word")) {
				assert.LessOrEqual(t, ansi.StringWidth(string(line)), 12)
			}
		}
	})

	t.Run("existing session renders", func(t *testing.T) {
		t.Parallel()

		session := &tinker.Session{Messages: []tinker.Message{
			tinker.NewUserMessage("weather in Paris?"),
			tinker.AssistantMessage{Content: []tinker.ContentBlock{
				tinker.ToolCallBlock{ID: "c1", Name: "get_weather", Arguments: json.RawMessage(`{"location":"Paris"}`)},
			}},
			tinker.ToolResultMessage{ToolCallID: "c1", ToolName: "get_weather", Content: []tinker.ContentBlock{tinker.TextBlock{Text: "UNGODLY"}}},
		}}
		view := ansi.Strip(bt.New(nopAgent, session, tinker.DefaultTheme()).View())
		assert.Contains(t, view, "> weather in Paris?")
		assert.Contains(t, view, "▸ get_weather")
		assert.Contains(t, view, "✓ get_weather  UNGODLY")
	})
}

func TestModel_Program(t *testing.T) {
	t.Parallel()

	t.Run("agent run streams and exits", func(t *testing.T) {
		t.Parallel()

		session := newSession("what is the sum of 40 and 2?")
		agent := func(_ context.Context, s *tinker.Session, onEvent func(tinker.Event)) error {
			onEvent(tinker.EventToolCallBegin{ID: "c1", Name: "addition"})
			onEvent(tinker.EventToolCallEnd{Call: tinker.ToolCallBlock{ID: "c1", Name: "addition", Arguments: json.RawMessage(`{"x":40,"y":2}`)}})
			onEvent(tinker.EventToolResult{ID: "c1", ToolName: "addition", Content: "42"})
			onEvent(tinker.EventTextDelta{Delta: "The sum is 42."})
			s.Messages = append(s.Messages, tinker.AssistantMessage{
				Content: []tinker.ContentBlock{tinker.TextBlock{Text: "The sum is 42."}},
			})
			return nil
		}

		tm := teatest.NewTestModel(t, bt.New(agent, session, tinker.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Answer:"))
		}, teatest.WithDuration(5*time.Second))

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		assert.Equal(t, "The sum is 42.", final.Result())
	})

	t.Run("ctrl+c cancels blocked agent", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		agent := func(ctx context.Context, _ *tinker.Session, _ func(tinker.Event)) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}

		tm := teatest.NewTestModel(t, bt.New(agent, newSession("slow"), tinker.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("agent did not start")
		}
		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.True(t, final.Interrupted())
		assert.NoError(t, final.Err())
	})

	t.Run("agent error exits", func(t *testing.T) {
		t.Parallel()

		agent := func(context.Context, *tinker.Session, func(tinker.Event)) error {
			return errors.New("ollama: model \"llama3.2\" not found")
		}

		tm := teatest.NewTestModel(t, bt.New(agent, newSession("x"), tinker.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))

		final := tm.FinalModel(t).(bt.Model)
		require.Error(t, final.Err())
		assert.Contains(t, final.Err().Error(), "not found")
	})
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	agent := func(ctx context.Context, _ *tinker.Session, _ func(tinker.Event)) error {
		<-ctx.Done()
		return ctx.Err()
	}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	var out bytes.Buffer
	final, err := bt.Run(ctx, bt.New(agent, newSession("x"), tinker.DefaultTheme()),
		tea.WithInput(nil), tea.WithOutput(&out))
	require.NoError(t, err)
	assert.True(t, final.Interrupted())
	assert.False(t, final.Running())
}
