package tinker

// StopReason is the normalized reason a model turn ended. The provider's raw
// value is kept alongside it in AssistantMessage.RawStopReason.
type StopReason string

const (
	// StopEndTurn is a normal finish ("stop" or empty done_reason).
	StopEndTurn StopReason = "end_turn"
	// StopLength means the response hit the token limit.
	StopLength StopReason = "length"
	// StopToolUse means the turn ended with at least one tool call.
	StopToolUse StopReason = "tool_use"
	// StopError is set when transport or server failures end the stream.
	StopError StopReason = "error"
	// StopAborted is set only when the caller cancelled the context or
	// closed the stream early.
	StopAborted StopReason = "aborted"
	// StopUnknown covers done_reason values with no mapping.
	StopUnknown StopReason = "unknown"
)
