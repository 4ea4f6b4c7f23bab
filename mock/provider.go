// Package mock provides test doubles for tinker interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/tinker"
)

// Interface compliance check.
var _ tinker.Provider = (*Provider)(nil)

// Provider is a test double for tinker.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req tinker.Request) (tinker.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req tinker.Request) (tinker.Stream, error) {
	return p.StreamFn(ctx, req)
}
