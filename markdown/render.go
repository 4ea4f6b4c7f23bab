package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tinker"
	"github.com/yuin/goldmark/ast"
)

// Render returns source as ANSI-styled text wrapped to width. Code blocks
// keep their line breaks and get a gutter instead of being reflowed.
func Render(source string, width int, theme tinker.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := renderer{
		src:     []byte(source),
		width:   width,
		bold:    lipgloss.NewStyle().Bold(true),
		italic:  lipgloss.NewStyle().Italic(true),
		heading: lipgloss.NewStyle().Foreground(color(theme.Prompt)).Bold(true),
		code:    lipgloss.NewStyle().Foreground(color(theme.ToolResult)),
		muted:   lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
		link:    lipgloss.NewStyle().Underline(true),
	}
	var buf bytes.Buffer
	r.blocks(parse(r.src), &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

type renderer struct {
	src   []byte
	width int

	bold    lipgloss.Style
	italic  lipgloss.Style
	heading lipgloss.Style
	code    lipgloss.Style
	muted   lipgloss.Style
	link    lipgloss.Style
}

func (r *renderer) blocks(parent ast.Node, buf *bytes.Buffer) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n, buf)
		if n.NextSibling() != nil {
			buf.WriteString("\n")
		}
	}
}

func (r *renderer) block(n ast.Node, buf *bytes.Buffer) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.wrap(buf, r.inline(n), r.width)
	case *ast.Heading:
		r.wrap(buf, r.heading.Render(r.inline(n)), r.width)
	case *ast.FencedCodeBlock:
		if lang := n.Language(r.src); len(lang) > 0 {
			buf.WriteString(r.muted.Render(string(lang)) + "\n")
		}
		r.codeLines(n, buf)
	case *ast.CodeBlock:
		r.codeLines(n, buf)
	case *ast.List:
		r.list(n, buf, 0)
	case *ast.ThematicBreak:
		buf.WriteString(r.muted.Render(strings.Repeat("─", min(r.width, 40))) + "\n")
	default:
		r.blocks(n, buf)
	}
}

func (r *renderer) wrap(buf *bytes.Buffer, s string, width int) {
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	buf.WriteString("\n")
}

func (r *renderer) codeLines(n ast.Node, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	for _, line := range strings.Split(blockText(n, r.src), "\n") {
		buf.WriteString(gutter + r.code.Render(line) + "\n")
	}
}

func (r *renderer) list(l *ast.List, buf *bytes.Buffer, depth int) {
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		indent := strings.Repeat("  ", depth)
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				r.list(sub, buf, depth+1)
				continue
			}
			prefix := indent + marker
			// Continuation lines align under the item text.
			marker = strings.Repeat(" ", len([]rune(marker)))
			var inner bytes.Buffer
			r.block(c, &inner)
			lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
			for i, line := range lines {
				if i > 0 {
					prefix = indent + marker
				}
				buf.WriteString(prefix + line + "\n")
			}
		}
	}
}

func (r *renderer) inline(n ast.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.span(c, &buf)
	}
	return buf.String()
}

func (r *renderer) span(n ast.Node, buf *bytes.Buffer) {
	switch n := n.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(r.src))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(r.inline(n)))
		} else {
			buf.WriteString(r.bold.Render(r.inline(n)))
		}
	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.inline(n)))
	case *ast.Link:
		buf.WriteString(r.link.Render(r.inline(n)) + " " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		buf.WriteString(r.link.Render(string(n.URL(r.src))))
	default:
		buf.WriteString(r.inline(n))
	}
}
