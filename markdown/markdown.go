// Package markdown parses markdown with goldmark. Render turns agent output
// into ANSI-styled terminal text; CodeBlocks extracts the code of fenced and
// indented blocks so a document can be fed to the slide renderer.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is the code of one fenced or indented block.
type CodeBlock struct {
	// Language is the fence info word, empty for indented blocks.
	Language string
	Code     string
}

// CodeBlocks returns the code blocks of source in document order.
func CodeBlocks(source []byte) []CodeBlock {
	doc := parse(source)
	var blocks []CodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch cb := n.(type) {
		case *ast.FencedCodeBlock:
			blocks = append(blocks, CodeBlock{
				Language: string(cb.Language(source)),
				Code:     blockText(cb, source),
			})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			blocks = append(blocks, CodeBlock{Code: blockText(cb, source)})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

func parse(source []byte) ast.Node {
	return goldmark.DefaultParser().Parse(text.NewReader(source))
}

// blockText joins the raw lines of a code block, dropping the final newline.
func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
