package main

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/tinker/markdown"
	"github.com/fwojciec/tinker/slide"
)

// source is one piece of code to render.
type source struct {
	name string
	code string
	// language comes from a markdown fence.
	language string
	// detect picks the lexer from filename or content.
	detect   bool
	filename string
}

// apply fills the lexer selection of o for this source. An explicit -lang,
// or a language from a preset, applies to stdin and the built-in example;
// files and fences pick their own lexer unless -lang was given.
func (s source) apply(o slide.Options, langFlag bool) slide.Options {
	if langFlag {
		return o
	}
	switch {
	case s.language != "":
		o.Language = s.language
	case s.detect:
		o.Language = ""
		o.Filename = s.filename
	}
	return o
}

// collect reads every input argument. No arguments yields the example.
func collect(args []string, stdin io.Reader, md bool) ([]source, error) {
	if len(args) == 0 {
		return []source{{name: "example", code: example}}, nil
	}
	var out []source
	for _, arg := range args {
		paths, err := expand(arg)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			srcs, err := read(p, stdin, md)
			if err != nil {
				return nil, err
			}
			out = append(out, srcs...)
		}
	}
	return out, nil
}

// expand resolves a glob argument to the files it matches, in lexical
// order. Other arguments are returned as is.
func expand(arg string) ([]string, error) {
	if arg == "-" || !strings.ContainsAny(arg, "*?[{") {
		return []string{arg}, nil
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
		return nil, fmt.Errorf("invalid glob pattern: %s", arg)
	}
	base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
	var matches []string
	err := doublestar.GlobWalk(os.DirFS(filepath.FromSlash(base)), pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", arg, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %s: no matches", arg)
	}
	return matches, nil
}

func read(path string, stdin io.Reader, md bool) ([]source, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "-" {
		name = "stdin"
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if !md {
		s := source{name: name, code: string(data)}
		if path != "-" {
			s.detect = true
			s.filename = path
		}
		return []source{s}, nil
	}

	blocks := markdown.CodeBlocks(data)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: no code blocks", name)
	}
	out := make([]source, 0, len(blocks))
	for i, b := range blocks {
		s := source{name: fmt.Sprintf("%s#%d", name, i+1), code: b.Code}
		// Fence tags chroma does not know fall back to content analysis.
		if b.Language != "" && lexers.Get(b.Language) != nil {
			s.language = b.Language
		} else {
			s.detect = true
		}
		out = append(out, s)
	}
	return out, nil
}
