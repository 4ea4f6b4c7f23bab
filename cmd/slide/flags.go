package main

import (
	"flag"

	"github.com/fwojciec/tinker/slide"
)

// defaultMargin is used when a gradient is given without a margin.
const defaultMargin = 80

type flags struct {
	output      string
	config      string
	lang        string
	style       string
	font        string
	size        float64
	lineNumbers bool
	radius      int
	margin      int
	gradient    string
	direction   string
	space       string
	markdown    bool
	verbose     bool

	// set records the flags given on the command line.
	set map[string]bool
}

func (f *flags) register(fs *flag.FlagSet) {
	d := slide.DefaultOptions()
	fs.StringVar(&f.output, "o", defaultOutput, `Output file, .png or .jpg; "-" writes PNG to stdout`)
	fs.StringVar(&f.config, "config", "", "YAML preset; flags override it")
	fs.StringVar(&f.lang, "lang", "", "Lexer name (default: from file name or content)")
	fs.StringVar(&f.style, "style", d.Style, "Chroma style")
	fs.StringVar(&f.font, "font", "", "TrueType/OpenType font file (default Go Mono)")
	fs.Float64Var(&f.size, "size", d.FontSize, "Font size in pixels")
	fs.BoolVar(&f.lineNumbers, "line-numbers", false, "Draw line numbers")
	fs.IntVar(&f.radius, "radius", 0, "Window corner radius")
	fs.IntVar(&f.margin, "margin", 0, "Backdrop margin around the window")
	fs.StringVar(&f.gradient, "gradient", "", `Backdrop stops, e.g. "#BD93F9,#FF79C6"`)
	fs.StringVar(&f.direction, "direction", "", "Backdrop direction: vertical, horizontal, diagonal")
	fs.StringVar(&f.space, "space", "", "Backdrop blending: rgb, lab")
	fs.BoolVar(&f.markdown, "md", false, "Treat inputs as markdown and render their code blocks")
	fs.BoolVar(&f.verbose, "v", false, "Debug logging")
}

// options loads the preset, or the defaults, and overlays the flags that were
// set explicitly.
func (f *flags) options(fs *flag.FlagSet) (slide.Options, error) {
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	o := slide.DefaultOptions()
	if f.config != "" {
		var err error
		if o, err = slide.LoadOptions(f.config); err != nil {
			return slide.Options{}, err
		}
	}
	if f.set["lang"] {
		o.Language = f.lang
	}
	if f.set["style"] {
		o.Style = f.style
	}
	if f.set["font"] {
		o.Font = f.font
	}
	if f.set["size"] {
		o.FontSize = f.size
	}
	if f.set["line-numbers"] {
		o.LineNumbers = f.lineNumbers
	}
	if f.set["radius"] {
		o.CornerRadius = f.radius
	}
	if f.set["margin"] {
		o.Margin = f.margin
	}
	if f.set["gradient"] {
		stops, err := slide.ParseStops(f.gradient)
		if err != nil {
			return slide.Options{}, err
		}
		o.Backdrop.Stops = stops
		if o.Margin == 0 {
			o.Margin = defaultMargin
		}
	}
	if f.set["direction"] {
		o.Backdrop.Direction = slide.Direction(f.direction)
	}
	if f.set["space"] {
		o.Backdrop.Space = slide.ColorSpace(f.space)
	}
	return o, o.Validate()
}
