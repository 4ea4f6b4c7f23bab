package tinker

// Event is a sealed interface representing a streaming event.
// Transport errors come from Stream.Next's error return, not from events.
type Event interface {
	event()
}

// EventTextDelta represents a text content delta.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// EventThinkingDelta represents a reasoning content delta.
type EventThinkingDelta struct {
	Delta string
}

func (EventThinkingDelta) event() {}

// EventToolCallBegin signals the start of a tool call.
type EventToolCallBegin struct {
	ID   string
	Name string
}

func (EventToolCallBegin) event() {}

// EventToolCallEnd signals the completion of a tool call with the assembled block.
type EventToolCallEnd struct {
	Call ToolCallBlock
}

func (EventToolCallEnd) event() {}

// EventToolResult carries the text of an executed tool call. It is emitted
// by the agent loop after execution, never by providers.
type EventToolResult struct {
	ID       string
	ToolName string
	Content  string
	IsError  bool
}

func (EventToolResult) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventThinkingDelta{}
	_ Event = EventToolCallBegin{}
	_ Event = EventToolCallEnd{}
	_ Event = EventToolResult{}
)
