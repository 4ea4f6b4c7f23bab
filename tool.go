package tinker

import (
	"context"
	"encoding/json"
)

// Tool is the schema sent to the model describing a callable tool.
// Parameters holds a JSON Schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolExecutor runs tools. Execute returns error for infrastructure failures.
// ToolResult.IsError indicates tool-reported domain failures sent back to the model.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (*ToolResult, error)
}

// ToolResult represents the outcome of a tool execution.
type ToolResult struct {
	Content []ContentBlock
	IsError bool
}

// TextResult returns a successful ToolResult with a single text block.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: []ContentBlock{TextBlock{Text: text}}}
}

// ErrorResult returns a domain-failure ToolResult with a single text block.
func ErrorResult(msg string) *ToolResult {
	return &ToolResult{
		Content: []ContentBlock{TextBlock{Text: msg}},
		IsError: true,
	}
}
