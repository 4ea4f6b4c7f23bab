package tinker

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamNotReady indicates Message() was called before any data arrived.
	ErrStreamNotReady = errors.New("stream not ready: call Next() first")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrToolNotFound indicates the requested tool is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrMaxSteps indicates the agent used up its turn budget without the
	// model producing a final response.
	ErrMaxSteps = errors.New("max steps reached")
)
