package tinker

import "time"

// Session represents a conversation session.
type Session struct {
	ID           string
	Messages     []Message
	SystemPrompt string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LastAssistantText returns the text of the most recent assistant message
// that has any, or empty string.
func (s *Session) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if am, ok := s.Messages[i].(AssistantMessage); ok {
			if text := am.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}

// Usage sums token usage over all assistant messages.
func (s *Session) Usage() Usage {
	var u Usage
	for _, msg := range s.Messages {
		if am, ok := msg.(AssistantMessage); ok {
			u = u.Add(am.Usage)
		}
	}
	return u
}
