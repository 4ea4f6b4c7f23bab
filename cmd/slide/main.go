// Command slide renders source code as a terminal-window image.
//
// Usage:
//
//	slide [flags] [file|glob|-]...
//
// With no inputs a built-in Python example is rendered. Arguments may be
// files, "-" for stdin, or doublestar globs such as "examples/**/*.go".
// With -md each fenced code block of the markdown inputs becomes a slide.
// Several slides are written as out-01.png, out-02.png, ...
//
// Flags:
//
//	-o string          Output file, .png or .jpg; "-" writes PNG to stdout (default code_slide_high_res.png)
//	-config string     YAML preset; flags override it
//	-lang string       Lexer name (default: from file name or content)
//	-style string      Chroma style (default dracula)
//	-font string       TrueType/OpenType font file (default Go Mono)
//	-size float        Font size in pixels (default 60)
//	-line-numbers      Draw line numbers
//	-radius int        Window corner radius
//	-margin int        Backdrop margin around the window
//	-gradient string   Backdrop stops, e.g. "#BD93F9,#FF79C6" or "#000@0,#fff@1"
//	-direction string  Backdrop direction: vertical, horizontal, diagonal
//	-space string      Backdrop blending: rgb, lab
//	-md                Treat inputs as markdown and render their code blocks
//	-v                 Debug logging
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/tinker/slide"
)

const defaultOutput = "code_slide_high_res.png"

// example is rendered when no input is given.
const example = `from pydantic import BaseModel

class User(BaseModel):
    name: str
    email: str
    account_id: int
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "slide: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("slide", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f flags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	base, err := f.options(fs)
	if err != nil {
		return err
	}

	sources, err := collect(fs.Args(), stdin, f.markdown)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("no code to render")
	}
	logger.Debug("rendering", "count", len(sources), "style", base.Style)

	if f.output == "-" && len(sources) > 1 {
		return fmt.Errorf("%d slides cannot be written to stdout", len(sources))
	}
	for i, src := range sources {
		o := src.apply(base, f.set["lang"])
		img, err := slide.Render(src.code, o)
		if err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
		if f.output == "-" {
			return slide.Encode(stdout, img, slide.PNG)
		}
		path := outputPath(f.output, i, len(sources))
		if err := slide.Save(img, path); err != nil {
			return err
		}
		logger.Debug("slide written", "source", src.name, "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
		fmt.Fprintf(stdout, "High-resolution code slide saved to %s\n", path)
	}
	return nil
}

// outputPath numbers the output file when there is more than one slide.
func outputPath(out string, i, n int) string {
	if n == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%02d%s", strings.TrimSuffix(out, ext), i+1, ext)
}
