package mock

import (
	"io"

	"github.com/fwojciec/tinker"
)

// Interface compliance check.
var _ tinker.Stream = (*Stream)(nil)

// Stream is a test double for tinker.Stream.
// NextFn and MessageFn panic when nil to catch missing setup. CloseFn and
// StateFn are nil-safe because callers commonly defer Close.
type Stream struct {
	NextFn    func() (tinker.Event, error)
	StateFn   func() tinker.StreamState
	MessageFn func() (tinker.AssistantMessage, error)
	CloseFn   func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (tinker.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() tinker.StreamState {
	if s.StateFn == nil {
		return tinker.StreamStateNew
	}
	return s.StateFn()
}

// Message delegates to MessageFn.
func (s *Stream) Message() (tinker.AssistantMessage, error) {
	return s.MessageFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Replay returns a Stream that yields events in order, then io.EOF, and
// reports msg once drained.
func Replay(msg tinker.AssistantMessage, events ...tinker.Event) *Stream {
	i := 0
	state := tinker.StreamStateNew
	return &Stream{
		NextFn: func() (tinker.Event, error) {
			if i >= len(events) {
				state = tinker.StreamStateComplete
				return nil, io.EOF
			}
			state = tinker.StreamStateStreaming
			e := events[i]
			i++
			return e, nil
		},
		StateFn: func() tinker.StreamState { return state },
		MessageFn: func() (tinker.AssistantMessage, error) {
			return msg, nil
		},
	}
}
