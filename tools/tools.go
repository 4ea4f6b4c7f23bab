// Package tools provides the callable tools offered to the model and a
// registry that dispatches calls to them by name.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/tinker"
)

// Handler executes one tool call. Domain failures are reported through the
// returned ToolResult; a non-nil error means the tool could not run at all.
type Handler func(ctx context.Context, args json.RawMessage) (*tinker.ToolResult, error)

// Compile-time interface check.
var _ tinker.ToolExecutor = (*Registry)(nil)

// Registry maps tool names to their definitions and handlers.
// It is not safe for concurrent registration.
type Registry struct {
	order    []string
	tools    map[string]tinker.Tool
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]tinker.Tool),
		handlers: make(map[string]Handler),
	}
}

// Default returns a Registry holding get_weather, to_int and addition.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(WeatherTool(), ExecuteWeather)
	r.MustRegister(ToIntTool(), ExecuteToInt)
	r.MustRegister(AdditionTool(), ExecuteAddition)
	return r
}

// Register adds a tool. Names must be non-empty and unique.
func (r *Registry) Register(tool tinker.Tool, h Handler) error {
	if tool.Name == "" {
		return fmt.Errorf("register tool: empty name: %w", tinker.ErrValidation)
	}
	if h == nil {
		return fmt.Errorf("register tool %q: nil handler: %w", tool.Name, tinker.ErrValidation)
	}
	if _, ok := r.tools[tool.Name]; ok {
		return fmt.Errorf("register tool %q: already registered: %w", tool.Name, tinker.ErrValidation)
	}
	r.order = append(r.order, tool.Name)
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = h
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// static registrations at startup.
func (r *Registry) MustRegister(tool tinker.Tool, h Handler) {
	if err := r.Register(tool, h); err != nil {
		panic(err)
	}
}

// Tools returns the tool definitions in registration order.
func (r *Registry) Tools() []tinker.Tool {
	out := make([]tinker.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute dispatches a tool call by name. Unknown tool names return an IsError
// result so the model can self-correct.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (*tinker.ToolResult, error) {
	h, ok := r.handlers[name]
	if !ok {
		return domainError(fmt.Sprintf("unknown tool: %s (available: %s)", name, r.names())), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	return h(ctx, args)
}

func (r *Registry) names() string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func domainError(msg string) *tinker.ToolResult {
	return tinker.ErrorResult(msg)
}

func textResult(text string) *tinker.ToolResult {
	return tinker.TextResult(text)
}
