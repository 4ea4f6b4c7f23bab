package slide

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// defaultForeground is used when a style leaves plain text uncolored.
var defaultForeground = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf2, A: 0xff}

// Run is a span of identically styled text. Tabs are already expanded.
type Run struct {
	Text   string
	Color  color.RGBA
	Bold   bool
	Italic bool
}

// Line is one source line as styled runs.
type Line []Run

// Cells returns the width of the line in monospace cells. Wide runes count
// as two cells.
func (l Line) Cells() int {
	n := 0
	for _, r := range l {
		n += textCells(r.Text)
	}
	return n
}

// Highlight tokenizes code and colors it with o.Style. Trailing blank lines
// are dropped; CRLF line endings are accepted.
func Highlight(code string, o Options) ([]Line, error) {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.TrimRight(code, "\n")
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("slide: %w", ErrEmptyCode)
	}
	lexer, err := pickLexer(code, o)
	if err != nil {
		return nil, err
	}
	style, err := pickStyle(o.Style)
	if err != nil {
		return nil, err
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("slide: tokenise: %w", err)
	}

	tabWidth := max(o.TabWidth, 1)
	fg := entryColor(style.Get(chroma.Text), defaultForeground)
	lines := []Line{nil}
	col := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		entry := style.Get(tok.Type)
		base := Run{
			Color:  entryColor(entry, fg),
			Bold:   entry.Bold == chroma.Yes,
			Italic: entry.Italic == chroma.Yes,
		}
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				lines = append(lines, nil)
				col = 0
			}
			if part == "" {
				continue
			}
			text, width := expandTabs(part, col, tabWidth)
			col += width
			cur := &lines[len(lines)-1]
			if n := len(*cur); n > 0 && sameStyle((*cur)[n-1], base) {
				(*cur)[n-1].Text += text
				continue
			}
			run := base
			run.Text = text
			*cur = append(*cur, run)
		}
	}
	for len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func pickLexer(code string, o Options) (chroma.Lexer, error) {
	if o.Language != "" {
		if l := lexers.Get(o.Language); l != nil {
			return l, nil
		}
		return nil, fmt.Errorf("slide: %w: %q", ErrUnknownLanguage, o.Language)
	}
	if o.Filename != "" {
		if l := lexers.Match(filepath.Base(o.Filename)); l != nil {
			return l, nil
		}
	}
	if l := lexers.Analyse(code); l != nil {
		return l, nil
	}
	return lexers.Fallback, nil
}

func pickStyle(name string) (*chroma.Style, error) {
	if name == "" {
		return styles.Fallback, nil
	}
	if s, ok := styles.Registry[strings.ToLower(name)]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("slide: %w: %q", ErrUnknownStyle, name)
}

func entryColor(e chroma.StyleEntry, fallback color.RGBA) color.RGBA {
	if !e.Colour.IsSet() {
		return fallback
	}
	return color.RGBA{R: e.Colour.Red(), G: e.Colour.Green(), B: e.Colour.Blue(), A: 0xff}
}

func sameStyle(a, b Run) bool {
	return a.Color == b.Color && a.Bold == b.Bold && a.Italic == b.Italic
}

// expandTabs replaces each tab with spaces up to the next tab stop, given
// the starting column, and returns the text and its width in cells.
func expandTabs(s string, col, tabWidth int) (string, int) {
	var b strings.Builder
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if cluster == "\t" {
			n := tabWidth - (col+w)%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			w += n
			continue
		}
		b.WriteString(cluster)
		w += runewidth.StringWidth(cluster)
	}
	return b.String(), w
}

func textCells(s string) int {
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		n += runewidth.StringWidth(g.Str())
	}
	return n
}
