package slide

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Render highlights code and draws the slide.
func Render(code string, o Options) (*image.RGBA, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("slide: %w", err)
	}
	lines, err := Highlight(code, o)
	if err != nil {
		return nil, err
	}
	faces, err := LoadFaces(o)
	if err != nil {
		return nil, err
	}
	defer faces.Close()
	return Draw(lines, faces, o)
}

// Layout is the geometry of a slide.
type Layout struct {
	// Window is the terminal window including the title bar.
	Window image.Rectangle
	// Canvas is the full image; larger than Window when there is a margin.
	Canvas image.Rectangle
	// Text is the top-left corner of the first text cell, relative to Window.
	Text image.Point
	// Gutter is the number of cells reserved for line numbers.
	Gutter  int
	Advance fixed.Int26_6
	LineH   int
}

// Measure computes the layout of lines without drawing. The code area is
// padded by PaddingX on every side and sits PaddingY below the title bar
// with PaddingY beneath it.
func Measure(lines []Line, faces *Faces, o Options) Layout {
	l := Layout{Advance: faces.Advance(), LineH: o.LineHeightPx()}
	if o.LineNumbers {
		l.Gutter = len(strconv.Itoa(len(lines))) + 2
	}
	cells := l.Gutter
	for _, line := range lines {
		cells = max(cells, l.Gutter+line.Cells())
	}
	codeW := (l.Advance*fixed.Int26_6(cells)).Ceil() + 2*o.PaddingX
	codeH := len(lines)*l.LineH + 2*o.PaddingX

	n := len(o.ButtonColors)
	buttonsW := 0
	if n > 0 {
		buttonsW = o.PaddingX/2 + n*2*o.ButtonRadius + (n-1)*o.ButtonSpacing + o.PaddingX/2
	}

	w := max(codeW, buttonsW, 1)
	h := o.BarHeight + o.PaddingY + codeH + o.PaddingY
	l.Window = image.Rect(0, 0, w, h).Add(image.Pt(o.Margin, o.Margin))
	l.Canvas = image.Rect(0, 0, w+2*o.Margin, h+2*o.Margin)
	l.Text = image.Pt(o.PaddingX, o.BarHeight+o.PaddingY+o.PaddingX)
	return l
}

// Draw renders highlighted lines with faces. Options must be valid.
func Draw(lines []Line, faces *Faces, o Options) (*image.RGBA, error) {
	bg, err := ParseColor(o.Background)
	if err != nil {
		return nil, fmt.Errorf("slide: background: %w", err)
	}
	bar, err := ParseColor(o.BarColor)
	if err != nil {
		return nil, fmt.Errorf("slide: bar_color: %w", err)
	}

	l := Measure(lines, faces, o)
	if l.Canvas.Dx() > MaxDimension || l.Canvas.Dy() > MaxDimension {
		return nil, fmt.Errorf("slide: %w: image %dx%d exceeds %d pixels per side",
			ErrInvalidOptions, l.Canvas.Dx(), l.Canvas.Dy(), MaxDimension)
	}
	w, h := l.Window.Dx(), l.Window.Dy()
	win := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(win, win.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(win, image.Rect(0, 0, w, o.BarHeight), image.NewUniform(bar), image.Point{}, draw.Src)

	if err := drawButtons(win, o); err != nil {
		return nil, err
	}
	if err := drawText(win, lines, faces, l, o); err != nil {
		return nil, err
	}
	return frame(win, l, o)
}

func drawButtons(dst *image.RGBA, o Options) error {
	r := o.ButtonRadius
	if r == 0 {
		return nil
	}
	disc := Circle(r, o.Supersample)
	x := o.PaddingX / 2
	for i, hex := range o.ButtonColors {
		c, err := ParseColor(hex)
		if err != nil {
			return fmt.Errorf("slide: button_colors[%d]: %w", i, err)
		}
		rect := image.Rect(x-r, o.ButtonOffsetY, x+r, o.ButtonOffsetY+2*r)
		draw.DrawMask(dst, rect, image.NewUniform(c), image.Point{}, disc, image.Point{}, draw.Over)
		x += 2*r + o.ButtonSpacing
	}
	return nil
}

func drawText(dst *image.RGBA, lines []Line, faces *Faces, l Layout, o Options) error {
	numColor, err := ParseColor(o.LineNumberColor)
	if err != nil {
		return fmt.Errorf("slide: line_number_color: %w", err)
	}
	ascent := faces.Regular.Metrics().Ascent
	origin := fixed.I(l.Text.X)
	digits := l.Gutter - 2

	for i, line := range lines {
		baseline := fixed.I(l.Text.Y+i*l.LineH) + ascent
		if o.LineNumbers {
			num := fmt.Sprintf("%*d", digits, i+1)
			drawCells(dst, num, 0, origin, baseline, l.Advance, faces.Regular, numColor)
		}
		col := l.Gutter
		for _, run := range line {
			col = drawCells(dst, run.Text, col, origin, baseline, l.Advance, faces.Face(run.Bold, run.Italic), run.Color)
		}
	}
	return nil
}

// drawCells draws s one grapheme per cell starting at col and returns the
// column after it.
func drawCells(dst draw.Image, s string, col int, origin, baseline, adv fixed.Int26_6, face font.Face, c color.Color) int {
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if cluster != " " {
			d.Dot = fixed.Point26_6{X: origin + adv*fixed.Int26_6(col), Y: baseline}
			d.DrawString(cluster)
		}
		col += runewidth.StringWidth(cluster)
	}
	return col
}

// frame applies rounded corners and places the window on the backdrop.
func frame(win *image.RGBA, l Layout, o Options) (*image.RGBA, error) {
	if o.CornerRadius == 0 && o.Margin == 0 {
		return win, nil
	}
	var mask image.Image
	if o.CornerRadius > 0 {
		mask = RoundedRect(win.Bounds().Dx(), win.Bounds().Dy(), o.CornerRadius, o.Supersample)
	}

	canvas := image.NewRGBA(l.Canvas)
	op := draw.Src
	if o.Margin > 0 {
		ramp, err := o.Backdrop.Compile()
		if err != nil {
			return nil, fmt.Errorf("slide: backdrop: %w", err)
		}
		ramp.Fill(canvas, canvas.Bounds())
		op = draw.Over
	}
	draw.DrawMask(canvas, l.Window, win, image.Point{}, mask, image.Point{}, op)
	return canvas, nil
}
