package mock

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/tinker"
)

// Interface compliance check.
var _ tinker.ToolExecutor = (*ToolExecutor)(nil)

// ToolExecutor is a test double for tinker.ToolExecutor, standing in for
// tools.Registry in agent loop tests. Set ExecuteFn before calling Execute;
// return a non-nil error to simulate an infrastructure failure and a result
// with IsError for a domain failure.
type ToolExecutor struct {
	ExecuteFn func(ctx context.Context, name string, args json.RawMessage) (*tinker.ToolResult, error)
}

// Execute delegates to ExecuteFn.
func (e *ToolExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (*tinker.ToolResult, error) {
	return e.ExecuteFn(ctx, name, args)
}
