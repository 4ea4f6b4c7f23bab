// Package agent runs the tool-calling conversation loop between a Provider
// and a ToolExecutor.
package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tinker"
)

// DefaultMaxSteps is the provider turn budget of a single Run.
const DefaultMaxSteps = 20

// Loop orchestrates the conversation between a Provider and a ToolExecutor.
type Loop struct {
	provider tinker.Provider
	executor tinker.ToolExecutor
	logger   *slog.Logger
}

// New creates a new Loop with the given provider and tool executor.
func New(provider tinker.Provider, executor tinker.ToolExecutor) *Loop {
	return &Loop{provider: provider, executor: executor, logger: slog.Default()}
}

// WithLogger returns a copy of the loop that logs to logger.
func (l *Loop) WithLogger(logger *slog.Logger) *Loop {
	c := *l
	c.logger = logger
	return &c
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onEvent     func(tinker.Event)
	model       string
	maxSteps    int
	finalAnswer bool
}

// WithEventHandler sets a callback that receives each streaming event during
// the run. If nil or not set, events are silently discarded.
func WithEventHandler(h func(tinker.Event)) RunOption {
	return func(c *runConfig) {
		c.onEvent = h
	}
}

// WithModel sets the model ID for provider requests during this run.
// Empty string means the provider uses its default model.
func WithModel(model string) RunOption {
	return func(c *runConfig) {
		c.model = model
	}
}

// WithMaxSteps caps the number of provider turns. Values below 1 select
// DefaultMaxSteps.
func WithMaxSteps(n int) RunOption {
	return func(c *runConfig) {
		c.maxSteps = n
	}
}

// WithFinalAnswer offers the final_answer tool to the model. A call to it
// ends the run with its answer argument.
func WithFinalAnswer() RunOption {
	return func(c *runConfig) {
		c.finalAnswer = true
	}
}

// Run executes the agent loop. It sends the session's messages to the provider,
// streams the response, executes any tool calls, and repeats until the assistant
// stops requesting tools. It appends all messages to session.Messages.
//
// When the step budget is spent while the model still requests tools, Run
// returns an error wrapping tinker.ErrMaxSteps.
func (l *Loop) Run(ctx context.Context, session *tinker.Session, tools []tinker.Tool, opts ...RunOption) error {
	cfg := runConfig{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxSteps < 1 {
		cfg.maxSteps = DefaultMaxSteps
	}
	if cfg.finalAnswer {
		tools = append(tools[:len(tools):len(tools)], FinalAnswerTool())
	}

	for step := 1; step <= cfg.maxSteps; step++ {
		l.logger.Debug("agent step", "step", step, "messages", len(session.Messages))
		cont, err := l.turn(ctx, session, tools, &cfg)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return fmt.Errorf("agent: %d steps: %w", cfg.maxSteps, tinker.ErrMaxSteps)
}

// turn executes a single turn of the conversation loop. It returns true if the
// loop should continue (tool calls were made), false if it should stop.
func (l *Loop) turn(ctx context.Context, session *tinker.Session, tools []tinker.Tool, cfg *runConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	req := tinker.Request{
		Model:        cfg.model,
		SystemPrompt: session.SystemPrompt,
		Messages:     session.Messages,
		Tools:        tools,
	}

	stream, err := l.provider.Stream(ctx, req)
	if err != nil {
		return false, err
	}
	defer stream.Close()

	// Drain the stream, forwarding events to handler if set.
	var streamErr error
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		cfg.emit(evt)
	}

	// Get the assembled message (partial or complete).
	msg, msgErr := stream.Message()
	if msgErr != nil {
		if streamErr != nil {
			return false, streamErr
		}
		return false, msgErr
	}

	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = time.Now()

	if streamErr != nil {
		return false, streamErr
	}

	toolCalls := msg.ToolCalls()
	if len(toolCalls) == 0 {
		return false, nil
	}

	// Execute each tool call in order and append results to the session.
	done := false
	for _, tc := range toolCalls {
		var result *tinker.ToolResult
		if cfg.finalAnswer && tc.Name == FinalAnswerToolName {
			result = finalAnswerResult(tc.Arguments)
			done = !result.IsError
		} else {
			var execErr error
			result, execErr = l.executor.Execute(ctx, tc.Name, tc.Arguments)
			switch {
			case execErr != nil:
				l.logger.Warn("tool execution failed", "tool", tc.Name, "error", execErr)
				result = tinker.ErrorResult(execErr.Error())
			case result == nil:
				l.logger.Warn("tool returned no result", "tool", tc.Name)
				result = tinker.ErrorResult(fmt.Sprintf("tool %s returned no result", tc.Name))
			}
		}

		trm := tinker.ToolResultMessage{
			ToolCallID: tc.ID,
			ToolName:   tc.Name,
			Content:    result.Content,
			IsError:    result.IsError,
			Timestamp:  time.Now(),
		}
		session.Messages = append(session.Messages, trm)

		if text := trm.Text(); text != "" {
			cfg.emit(tinker.EventToolResult{
				ID:       tc.ID,
				ToolName: tc.Name,
				Content:  text,
				IsError:  result.IsError,
			})
		}
	}
	session.UpdatedAt = time.Now()

	return !done, nil
}

func (c *runConfig) emit(e tinker.Event) {
	if c.onEvent != nil {
		c.onEvent(e)
	}
}
