package tinker

import "context"

// Provider is a strategy interface for model backends.
//
// Request is passed by value; a provider may append to its slices without
// affecting the caller but must not modify existing elements.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Request carries model selection and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // empty = provider default
	SystemPrompt string
	Messages     []Message
	Tools        []Tool
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}
