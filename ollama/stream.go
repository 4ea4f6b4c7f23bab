package ollama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/tinker"
	"github.com/google/uuid"
	"github.com/ollama/ollama/api"
)

// Interface compliance check.
var _ tinker.Stream = (*stream)(nil)

// chatFunc matches api.Client.Chat.
type chatFunc func(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error

type stream struct {
	ctx       context.Context
	cancel    context.CancelFunc
	responses <-chan api.ChatResponse
	errc      <-chan error
	logger    *slog.Logger

	state   tinker.StreamState
	pending []tinker.Event
	err     error

	thinking   strings.Builder
	text       strings.Builder
	toolCalls  []tinker.ToolCallBlock
	doneReason string
	done       bool
	usage      tinker.Usage
	stopReason tinker.StopReason
}

func newStream(ctx context.Context, chat chatFunc, req *api.ChatRequest, logger *slog.Logger) *stream {
	ctx, cancel := context.WithCancel(ctx)
	responses := make(chan api.ChatResponse)
	errc := make(chan error, 1)

	go func() {
		defer close(responses)
		errc <- chat(ctx, req, func(resp api.ChatResponse) error {
			select {
			case responses <- resp:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	return &stream{
		ctx:       ctx,
		cancel:    cancel,
		responses: responses,
		errc:      errc,
		logger:    logger,
		state:     tinker.StreamStateNew,
	}
}

func (s *stream) Next() (tinker.Event, error) {
	for {
		if len(s.pending) > 0 {
			evt := s.pending[0]
			s.pending = s.pending[1:]
			return evt, nil
		}

		switch s.state {
		case tinker.StreamStateClosed:
			return nil, fmt.Errorf("ollama: %w", tinker.ErrStreamClosed)
		case tinker.StreamStateError:
			return nil, s.err
		case tinker.StreamStateComplete:
			return nil, io.EOF
		}

		resp, ok := <-s.responses
		if !ok {
			return nil, s.finish()
		}
		s.state = tinker.StreamStateStreaming
		s.process(resp)
	}
}

// finish is called once the SDK callback goroutine has returned.
func (s *stream) finish() error {
	err := <-s.errc
	// Classify before cancel, which always sets ctx.Err.
	aborted := s.ctx.Err() != nil
	s.cancel()
	switch {
	case err != nil:
		s.fail(err, aborted)
		return s.err
	case !s.done:
		s.fail(errors.New("stream ended before done"), aborted)
		return s.err
	}
	s.state = tinker.StreamStateComplete
	s.stopReason = s.mapStopReason()
	s.logger.Debug("chat response complete", "provider", "ollama",
		"done_reason", s.doneReason, "tool_calls", len(s.toolCalls),
		"input_tokens", s.usage.InputTokens, "output_tokens", s.usage.OutputTokens)
	return io.EOF
}

func (s *stream) fail(err error, aborted bool) {
	s.state = tinker.StreamStateError
	if aborted {
		s.stopReason = tinker.StopAborted
	} else {
		s.stopReason = tinker.StopError
	}
	s.err = fmt.Errorf("ollama: %w", err)
	s.logger.Debug("chat stream failed", "provider", "ollama", "error", err)
}

func (s *stream) process(resp api.ChatResponse) {
	if resp.Message.Thinking != "" {
		s.thinking.WriteString(resp.Message.Thinking)
		s.pending = append(s.pending, tinker.EventThinkingDelta{Delta: resp.Message.Thinking})
	}
	if resp.Message.Content != "" {
		s.text.WriteString(resp.Message.Content)
		s.pending = append(s.pending, tinker.EventTextDelta{Delta: resp.Message.Content})
	}
	for _, tc := range resp.Message.ToolCalls {
		call := convertToolCall(tc)
		s.toolCalls = append(s.toolCalls, call)
		s.pending = append(s.pending,
			tinker.EventToolCallBegin{ID: call.ID, Name: call.Name},
			tinker.EventToolCallEnd{Call: call},
		)
	}
	if resp.Done {
		s.done = true
		s.doneReason = resp.DoneReason
		s.usage = tinker.Usage{
			InputTokens:  resp.PromptEvalCount,
			OutputTokens: resp.EvalCount,
		}
	}
}

func convertToolCall(tc api.ToolCall) tinker.ToolCallBlock {
	id := tc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	args, err := json.Marshal(tc.Function.Arguments)
	if err != nil || len(args) == 0 || string(args) == "null" {
		args = []byte("{}")
	}
	return tinker.ToolCallBlock{
		ID:        id,
		Name:      tc.Function.Name,
		Arguments: args,
	}
}

func (s *stream) mapStopReason() tinker.StopReason {
	if len(s.toolCalls) > 0 {
		return tinker.StopToolUse
	}
	switch s.doneReason {
	case "stop", "":
		return tinker.StopEndTurn
	case "length":
		return tinker.StopLength
	default:
		return tinker.StopUnknown
	}
}

func (s *stream) State() tinker.StreamState {
	return s.state
}

func (s *stream) Message() (tinker.AssistantMessage, error) {
	if s.state == tinker.StreamStateNew {
		return tinker.AssistantMessage{}, fmt.Errorf("ollama: %w", tinker.ErrStreamNotReady)
	}
	var content []tinker.ContentBlock
	if s.thinking.Len() > 0 {
		content = append(content, tinker.ThinkingBlock{Thinking: s.thinking.String()})
	}
	if s.text.Len() > 0 {
		content = append(content, tinker.TextBlock{Text: s.text.String()})
	}
	for _, tc := range s.toolCalls {
		content = append(content, tc)
	}
	return tinker.AssistantMessage{
		Content:       content,
		StopReason:    s.stopReason,
		RawStopReason: s.doneReason,
		Usage:         s.usage,
		Timestamp:     time.Now(),
	}, nil
}

func (s *stream) Close() error {
	switch s.state {
	case tinker.StreamStateComplete, tinker.StreamStateError, tinker.StreamStateClosed:
	default:
		s.state = tinker.StreamStateClosed
		s.stopReason = tinker.StopAborted
	}
	s.cancel()
	return nil
}
