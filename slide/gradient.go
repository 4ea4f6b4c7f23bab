package slide

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Direction is the axis a gradient varies along.
type Direction string

const (
	Vertical   Direction = "vertical"   // top row to bottom row
	Horizontal Direction = "horizontal" // left column to right column
	Diagonal   Direction = "diagonal"   // top-left corner to bottom-right corner
)

// ColorSpace selects how neighbouring stops are blended.
type ColorSpace string

const (
	// RGB blends channels linearly: start + (end-start)*t.
	RGB ColorSpace = "rgb"
	// Lab blends in CIE L*a*b*, which avoids muddy midpoints.
	Lab ColorSpace = "lab"
)

// Stop is a gradient color at a position in [0, 1].
type Stop struct {
	Color  string  `yaml:"color"`
	Offset float64 `yaml:"offset"`
}

// Gradient is a piecewise-linear color ramp. When every offset is zero the
// stops are spread evenly, so a plain list of colors is a valid gradient.
type Gradient struct {
	Stops     []Stop     `yaml:"stops"`
	Direction Direction  `yaml:"direction"`
	Space     ColorSpace `yaml:"space"`
}

type stop struct {
	c colorful.Color
	t float64
}

// Ramp is a validated gradient ready for sampling.
type Ramp struct {
	stops []stop
	dir   Direction
	space ColorSpace
}

// Compile validates g and sorts its stops by offset.
func (g Gradient) Compile() (*Ramp, error) {
	if len(g.Stops) == 0 {
		return nil, fmt.Errorf("%w: no stops", ErrInvalidGradient)
	}
	r := &Ramp{dir: g.Direction, space: g.Space}
	if r.dir == "" {
		r.dir = Vertical
	}
	if r.space == "" {
		r.space = RGB
	}
	switch r.dir {
	case Vertical, Horizontal, Diagonal:
	default:
		return nil, fmt.Errorf("%w: direction %q", ErrInvalidGradient, g.Direction)
	}
	switch r.space {
	case RGB, Lab:
	default:
		return nil, fmt.Errorf("%w: color space %q", ErrInvalidGradient, g.Space)
	}

	spread := !slices.ContainsFunc(g.Stops, func(s Stop) bool { return s.Offset != 0 })
	for i, s := range g.Stops {
		c, err := parseColorful(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: stop %d: %w", ErrInvalidGradient, i, err)
		}
		t := s.Offset
		if spread && len(g.Stops) > 1 {
			t = float64(i) / float64(len(g.Stops)-1)
		}
		if t < 0 || t > 1 {
			return nil, fmt.Errorf("%w: stop %d offset %g outside [0, 1]", ErrInvalidGradient, i, s.Offset)
		}
		r.stops = append(r.stops, stop{c: c, t: t})
	}
	slices.SortStableFunc(r.stops, func(a, b stop) int {
		switch {
		case a.t < b.t:
			return -1
		case a.t > b.t:
			return 1
		}
		return 0
	})
	return r, nil
}

// At returns the color at position t, clamped to [0, 1]. Positions before
// the first stop or after the last take that stop's color.
func (r *Ramp) At(t float64) colorful.Color {
	t = max(0, min(1, t))
	first, last := r.stops[0], r.stops[len(r.stops)-1]
	if t <= first.t {
		return first.c
	}
	if t >= last.t {
		return last.c
	}
	for i := 1; i < len(r.stops); i++ {
		a, b := r.stops[i-1], r.stops[i]
		if t > b.t {
			continue
		}
		if b.t == a.t {
			return b.c
		}
		local := (t - a.t) / (b.t - a.t)
		if r.space == Lab {
			return a.c.BlendLab(b.c, local).Clamped()
		}
		return a.c.BlendRgb(b.c, local)
	}
	return last.c
}

// Fill paints rect of dst with the ramp along its direction.
func (r *Ramp) Fill(dst *image.RGBA, rect image.Rectangle) {
	rect = rect.Intersect(dst.Bounds())
	w, h := rect.Dx(), rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	switch r.dir {
	case Vertical:
		for y := 0; y < h; y++ {
			c := rgba(r.At(frac(y, h)))
			for x := 0; x < w; x++ {
				dst.SetRGBA(rect.Min.X+x, rect.Min.Y+y, c)
			}
		}
	case Horizontal:
		row := make([]color.RGBA, w)
		for x := range row {
			row[x] = rgba(r.At(frac(x, w)))
		}
		for y := 0; y < h; y++ {
			for x, c := range row {
				dst.SetRGBA(rect.Min.X+x, rect.Min.Y+y, c)
			}
		}
	case Diagonal:
		// Pixels with equal x+y share a color.
		diag := make([]color.RGBA, w+h-1)
		for i := range diag {
			diag[i] = rgba(r.At(frac(i, len(diag))))
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.SetRGBA(rect.Min.X+x, rect.Min.Y+y, diag[x+y])
			}
		}
	}
}

// frac maps index i of n samples onto [0, 1].
func frac(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ParseStops parses a comma-separated color list such as
// "#BD93F9,#FF79C6" or "#000@0,#333@0.8,#fff@1".
func ParseStops(s string) ([]Stop, error) {
	var stops []Stop
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		hex, off, hasOff := strings.Cut(part, "@")
		st := Stop{Color: hex}
		if hasOff {
			v, err := strconv.ParseFloat(off, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: offset %q", ErrInvalidGradient, off)
			}
			st.Offset = v
		}
		if _, err := parseColorful(hex); err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: no stops", ErrInvalidGradient)
	}
	return stops, nil
}

// parseColorful accepts #RGB and #RRGGBB, with or without the leading '#'.
func parseColorful(s string) (colorful.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// ParseColor parses a hex color into an opaque color.RGBA.
func ParseColor(s string) (color.RGBA, error) {
	c, err := parseColorful(s)
	if err != nil {
		return color.RGBA{}, err
	}
	return rgba(c), nil
}
