package tinker

// Role identifies who produced a session message. The ollama adapter maps
// RoleToolResult onto the wire role "tool".
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool_result"
)
