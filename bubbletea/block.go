package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tinker"
	"github.com/fwojciec/tinker/markdown"
)

// MessageBlock is a renderable element of the transcript. View takes a
// width so the root model controls layout.
type MessageBlock interface {
	View(width int) string
}

var (
	_ MessageBlock = (*UserBlock)(nil)
	_ MessageBlock = (*TextBlock)(nil)
	_ MessageBlock = (*ThinkingBlock)(nil)
	_ MessageBlock = (*ToolCallBlock)(nil)
	_ MessageBlock = (*ToolResultBlock)(nil)
	_ MessageBlock = (*ErrorBlock)(nil)
)

const maxPreviewLen = 60

// UserBlock renders the prompt with a "> " prefix.
type UserBlock struct {
	text   string
	styles Styles
}

// NewUserBlock creates a UserBlock.
func NewUserBlock(text string, styles Styles) *UserBlock {
	return &UserBlock{text: text, styles: styles}
}

func (b *UserBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.styles.Prompt.Render("> ") + b.text)
}

// TextBlock renders streamed assistant text as markdown.
type TextBlock struct {
	content strings.Builder
	theme   tinker.Theme
}

// NewTextBlock creates an empty TextBlock.
func NewTextBlock(theme tinker.Theme) *TextBlock {
	return &TextBlock{theme: theme}
}

// Append adds a text delta.
func (b *TextBlock) Append(text string) { b.content.WriteString(text) }

func (b *TextBlock) View(width int) string {
	raw := b.content.String()
	if strings.Count(raw, "```")%2 == 1 {
		// Close a fence that is still streaming so it renders as code.
		raw += "\n```"
	}
	return markdown.Render(raw, width, b.theme)
}

// ThinkingBlock renders reasoning text, keeping only the last few lines.
type ThinkingBlock struct {
	content strings.Builder
	styles  Styles
}

const thinkingTail = 3

// NewThinkingBlock creates an empty ThinkingBlock.
func NewThinkingBlock(styles Styles) *ThinkingBlock {
	return &ThinkingBlock{styles: styles}
}

// Append adds a thinking delta.
func (b *ThinkingBlock) Append(text string) { b.content.WriteString(text) }

func (b *ThinkingBlock) View(width int) string {
	wrapped := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(b.content.String()))
	lines := strings.Split(wrapped, "\n")
	if len(lines) > thinkingTail {
		lines = append([]string{"…"}, lines[len(lines)-thinkingTail:]...)
	}
	return b.styles.Thinking.Render(strings.Join(lines, "\n"))
}

// ToolCallBlock renders a tool invocation and its arguments.
type ToolCallBlock struct {
	id     string
	name   string
	args   string
	styles Styles
}

// NewToolCallBlock creates a ToolCallBlock awaiting its arguments.
func NewToolCallBlock(id, name string, styles Styles) *ToolCallBlock {
	return &ToolCallBlock{id: id, name: name, styles: styles}
}

// ID returns the tool call ID for event correlation.
func (b *ToolCallBlock) ID() string { return b.id }

// Finalize records the complete call from EventToolCallEnd.
func (b *ToolCallBlock) Finalize(call tinker.ToolCallBlock) {
	b.args = string(call.Arguments)
}

func (b *ToolCallBlock) View(width int) string {
	line := b.styles.ToolCall.Render("▸ " + b.name)
	if b.args != "" {
		line += " " + b.styles.Muted.Render(b.args)
	}
	return lipgloss.NewStyle().Width(width).Render(line)
}

// ToolResultBlock renders a one-line tool result preview.
type ToolResultBlock struct {
	toolName string
	content  string
	isError  bool
	styles   Styles
}

// NewToolResultBlock creates a ToolResultBlock.
func NewToolResultBlock(toolName, content string, isError bool, styles Styles) *ToolResultBlock {
	return &ToolResultBlock{toolName: toolName, content: content, isError: isError, styles: styles}
}

// IsError reports whether the result is a domain error.
func (b *ToolResultBlock) IsError() bool { return b.isError }

func (b *ToolResultBlock) View(width int) string {
	icon, body := b.styles.Success.Render("✓"), b.styles.ToolResult
	if b.isError {
		icon, body = b.styles.Error.Render("✗"), b.styles.Error
	}
	line := "  " + icon + " " + b.styles.Muted.Render(b.toolName)
	if b.content != "" {
		line += "  " + body.Render(preview(b.content))
	}
	return lipgloss.NewStyle().Width(width).Render(line)
}

func preview(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " …"
	}
	if r := []rune(s); len(r) > maxPreviewLen {
		s = string(r[:maxPreviewLen]) + "…"
	}
	return s
}

// ErrorBlock renders an agent failure.
type ErrorBlock struct {
	err    error
	styles Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(err error, styles Styles) *ErrorBlock {
	return &ErrorBlock{err: err, styles: styles}
}

func (b *ErrorBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.styles.Error.Render(fmt.Sprintf("Error: %v", b.err)))
}
