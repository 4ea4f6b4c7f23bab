package slide

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls layout, colors and fonts. Pixel values are in output
// pixels; FontSize is in pixels at 72 DPI.
type Options struct {
	// Language is a chroma lexer name or alias. When empty the lexer is
	// picked from Filename, then by content analysis, then plain text.
	Language string `yaml:"language"`
	Filename string `yaml:"filename"`
	// Style is a chroma style name.
	Style string `yaml:"style"`

	// Font is a TrueType or OpenType file. Empty selects the bundled Go Mono
	// family. BoldFont and ItalicFont are used for styled tokens and default
	// to Font.
	Font       string  `yaml:"font"`
	BoldFont   string  `yaml:"bold_font"`
	ItalicFont string  `yaml:"italic_font"`
	FontSize   float64 `yaml:"font_size"`
	// LineHeight is a multiple of FontSize.
	LineHeight float64 `yaml:"line_height"`
	TabWidth   int     `yaml:"tab_width"`

	PaddingX int `yaml:"padding_x"`
	PaddingY int `yaml:"padding_y"`

	BarHeight     int      `yaml:"bar_height"`
	ButtonRadius  int      `yaml:"button_radius"`
	ButtonSpacing int      `yaml:"button_spacing"`
	ButtonOffsetY int      `yaml:"button_offset_y"`
	ButtonColors  []string `yaml:"button_colors"`

	Background string `yaml:"background"`
	BarColor   string `yaml:"bar_color"`

	LineNumbers     bool   `yaml:"line_numbers"`
	LineNumberColor string `yaml:"line_number_color"`

	// CornerRadius rounds the window corners. Zero keeps them square.
	CornerRadius int `yaml:"corner_radius"`
	// Supersample is the rasterization factor for curved edges.
	Supersample int `yaml:"supersample"`

	// Margin places the window on a Backdrop this many pixels wide on every
	// side. Zero renders the window alone.
	Margin   int      `yaml:"margin"`
	Backdrop Gradient `yaml:"backdrop"`
}

// DefaultOptions returns the classic slide: dracula colors, 60px text with
// 1.3 line spacing, 100px padding and an 80px title bar.
func DefaultOptions() Options {
	return Options{
		Language:        "python",
		Style:           "dracula",
		FontSize:        60,
		LineHeight:      1.3,
		TabWidth:        4,
		PaddingX:        100,
		PaddingY:        100,
		BarHeight:       80,
		ButtonRadius:    16,
		ButtonSpacing:   20,
		ButtonOffsetY:   20,
		ButtonColors:    []string{"#FF5F56", "#FFBD2E", "#27C93F"},
		Background:      "#282A36",
		BarColor:        "#44475A",
		LineNumberColor: "#F8F8F2",
		Supersample:     4,
		Backdrop: Gradient{
			Stops:     []Stop{{Color: "#BD93F9", Offset: 0}, {Color: "#FF79C6", Offset: 1}},
			Direction: Vertical,
			Space:     RGB,
		},
	}
}

// Upper bounds keep every allocation of a render bounded.
const (
	maxFontSize   = 1000
	maxLineHeight = 10
	maxTabWidth   = 32
	maxLength     = 4096
	maxMaskRadius = 4096
	// MaxDimension is the largest width or height of a rendered image.
	MaxDimension = 16384
)

func inRange(v int) bool { return v >= 0 && v <= maxLength }

// LineHeightPx returns the line pitch in pixels.
func (o Options) LineHeightPx() int {
	return int(o.FontSize * o.LineHeight)
}

// Validate checks ranges and colors. Range errors are joined; the first bad
// color is reported alone.
func (o Options) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(o.FontSize > 0 && o.FontSize <= maxFontSize, "font_size must be in (0, %d], got %g", maxFontSize, o.FontSize)
	check(o.LineHeight > 0 && o.LineHeight <= maxLineHeight, "line_height must be in (0, %d], got %g", maxLineHeight, o.LineHeight)
	check(o.TabWidth >= 1 && o.TabWidth <= maxTabWidth, "tab_width must be in [1, %d], got %d", maxTabWidth, o.TabWidth)
	check(inRange(o.PaddingX) && inRange(o.PaddingY), "padding must be in [0, %d]", maxLength)
	check(inRange(o.BarHeight), "bar_height must be in [0, %d], got %d", maxLength, o.BarHeight)
	check(inRange(o.ButtonSpacing), "button_spacing must be in [0, %d], got %d", maxLength, o.ButtonSpacing)
	check(inRange(o.ButtonOffsetY), "button_offset_y must be in [0, %d], got %d", maxLength, o.ButtonOffsetY)
	check(inRange(o.Margin), "margin must be in [0, %d], got %d", maxLength, o.Margin)
	check(o.Supersample >= 1 && o.Supersample <= 16, "supersample must be in [1, 16], got %d", o.Supersample)
	// Curves are rasterized at radius*supersample before downsampling.
	check(o.ButtonRadius >= 0 && o.ButtonRadius <= maxMaskRadius && o.ButtonRadius*max(o.Supersample, 1) <= maxMaskRadius,
		"button_radius times supersample must be in [0, %d], got %d", maxMaskRadius, o.ButtonRadius)
	check(o.CornerRadius >= 0 && o.CornerRadius <= maxMaskRadius && o.CornerRadius*max(o.Supersample, 1) <= maxMaskRadius,
		"corner_radius times supersample must be in [0, %d], got %d", maxMaskRadius, o.CornerRadius)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}

	for _, c := range []struct{ name, value string }{
		{"background", o.Background},
		{"bar_color", o.BarColor},
		{"line_number_color", o.LineNumberColor},
	} {
		if _, err := ParseColor(c.value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOptions, c.name, err)
		}
	}
	for i, c := range o.ButtonColors {
		if _, err := ParseColor(c); err != nil {
			return fmt.Errorf("%w: button_colors[%d]: %w", ErrInvalidOptions, i, err)
		}
	}
	if o.Margin > 0 {
		if _, err := o.Backdrop.Compile(); err != nil {
			return fmt.Errorf("%w: backdrop: %w", ErrInvalidOptions, err)
		}
	}
	return nil
}

// LoadOptions reads a YAML preset from path. Fields the preset omits keep
// their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("slide: %w", err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes a YAML preset over DefaultOptions. Unknown keys are
// rejected.
func ParseOptions(data []byte) (Options, error) {
	o := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("slide: %w: %w", ErrInvalidOptions, err)
	}
	return o, nil
}
