package tinker

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values.
type Theme struct {
	Prompt     int // User prompt accent
	Thinking   int // Reasoning text
	ToolCall   int // Tool call header
	ToolResult int // Tool result body
	Error      int // Error messages
	Success    int // Final answer marker
	Muted      int // Status line, spinner
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Prompt:     4,
		Thinking:   8,
		ToolCall:   3,
		ToolResult: 6,
		Error:      1,
		Success:    2,
		Muted:      8,
	}
}
