package tinker

import "fmt"

// Validate checks universal constraints on Request.
// Providers may apply additional provider-specific validation.
func (r Request) Validate() error {
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	for i, msg := range r.Messages {
		if err := ValidateMessage(msg); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	seen := make(map[string]bool, len(r.Tools))
	for _, t := range r.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool name must not be empty: %w", ErrValidation)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tool %q: %w", t.Name, ErrValidation)
		}
		seen[t.Name] = true
	}
	return nil
}

// ValidateMessage checks that a message's content blocks are valid for its role.
func ValidateMessage(msg Message) error {
	switch m := msg.(type) {
	case UserMessage:
		return validateBlocks(m.Content, m.Role(), allowText)
	case AssistantMessage:
		return validateBlocks(m.Content, m.Role(), allowText|allowThinking|allowToolCall)
	case ToolResultMessage:
		if m.ToolCallID == "" {
			return fmt.Errorf("tool result without tool call id: %w", ErrValidation)
		}
		return validateBlocks(m.Content, m.Role(), allowText)
	default:
		return fmt.Errorf("unknown message type %T: %w", msg, ErrValidation)
	}
}

type blockAllow uint8

const (
	allowText blockAllow = 1 << iota
	allowThinking
	allowToolCall
)

func validateBlocks(blocks []ContentBlock, role Role, allowed blockAllow) error {
	for _, b := range blocks {
		var need blockAllow
		switch b.(type) {
		case TextBlock:
			need = allowText
		case ThinkingBlock:
			need = allowThinking
		case ToolCallBlock:
			need = allowToolCall
		default:
			return fmt.Errorf("unknown content block type %T in %s message: %w", b, role, ErrValidation)
		}
		if allowed&need == 0 {
			return fmt.Errorf("%T not allowed in %s message: %w", b, role, ErrValidation)
		}
	}
	return nil
}
