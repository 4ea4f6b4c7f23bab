package slide_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/tinker/slide"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pydanticExample = `from pydantic import BaseModel

class User(BaseModel):
    name: str
    email: str
    account_id: int
`

func hex(t *testing.T, s string) color.RGBA {
	t.Helper()
	c, err := slide.ParseColor(s)
	require.NoError(t, err)
	return c
}

func codeWidth(t *testing.T, o slide.Options, cells int) int {
	t.Helper()
	faces, err := slide.LoadFaces(o)
	require.NoError(t, err)
	defer faces.Close()
	return (faces.Advance()*fixedInt(cells)).Ceil() + 2*o.PaddingX
}

func TestRender_DefaultGeometry(t *testing.T) {
	t.Parallel()

	o := slide.DefaultOptions()
	img, err := slide.Render(pydanticExample, o)
	require.NoError(t, err)

	// bar + pad + (pad + 6 lines + pad) + pad
	wantH := 80 + 100 + (100 + 6*78 + 100) + 100
	assert.Equal(t, wantH, img.Bounds().Dy())
	assert.Equal(t, codeWidth(t, o, 30), img.Bounds().Dx())
}

func TestRender_Pixels(t *testing.T) {
	t.Parallel()

	o := slide.DefaultOptions()
	img, err := slide.Render(pydanticExample, o)
	require.NoError(t, err)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	bar := hex(t, o.BarColor)
	bg := hex(t, o.Background)
	assert.Equal(t, bar, img.RGBAAt(w-1, 0))
	assert.Equal(t, bar, img.RGBAAt(w-1, o.BarHeight-1))
	assert.Equal(t, bg, img.RGBAAt(w-1, o.BarHeight))
	assert.Equal(t, bg, img.RGBAAt(0, h-1))

	// Button centers sit at padX/2 + i*(2r+spacing), offsetY + r.
	cy := o.ButtonOffsetY + o.ButtonRadius
	for i, c := range o.ButtonColors {
		cx := o.PaddingX/2 + i*(2*o.ButtonRadius+o.ButtonSpacing)
		assert.Equal(t, hex(t, c), img.RGBAAt(cx, cy), "button %d", i)
	}
	// Between buttons the bar shows through.
	assert.Equal(t, bar, img.RGBAAt(o.PaddingX/2+o.ButtonRadius+o.ButtonSpacing/2, cy))

	// Some glyph pixels land inside the first text line.
	top := o.BarHeight + o.PaddingY + o.PaddingX
	inked := 0
	for y := top; y < top+o.LineHeightPx(); y++ {
		for x := o.PaddingX; x < w-o.PaddingX; x++ {
			if img.RGBAAt(x, y) != bg {
				inked++
			}
		}
	}
	assert.Positive(t, inked)

	// The padding above the code stays empty.
	for x := 0; x < w; x++ {
		assert.Equal(t, bg, img.RGBAAt(x, top-o.PaddingX/2))
	}
}

func TestRender_LineNumbersWidenGutter(t *testing.T) {
	t.Parallel()

	o := slide.DefaultOptions()
	o.LineNumbers = true
	img, err := slide.Render(pydanticExample, o)
	require.NoError(t, err)
	// One digit plus two cells of gap.
	assert.Equal(t, codeWidth(t, o, 33), img.Bounds().Dx())
}

func TestRender_NarrowCodeKeepsButtons(t *testing.T) {
	t.Parallel()

	o := slide.DefaultOptions()
	o.PaddingX = 10
	img, err := slide.Render("x", o)
	require.NoError(t, err)
	want := 5 + 3*32 + 2*20 + 5
	assert.GreaterOrEqual(t, img.Bounds().Dx(), want)
}

func TestRender_RoundedCorners(t *testing.T) {
	t.Parallel()

	o := slide.DefaultOptions()
	o.CornerRadius = 40
	img, err := slide.Render("print(1)", o)
	require.NoError(t, err)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	for _, p := range []image.Point{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		assert.Equal(t, uint8(0), img.RGBAAt(p.X, p.Y).A, "corner %v", p)
	}
	assert.Equal(t, hex(t, o.Background), img.RGBAAt(w/2, h-1))
}

func TestRender_Backdrop(t *testing.T) {
	t.Parallel()

	o := slide.DefaultOptions()
	o.Margin = 50
	o.CornerRadius = 20
	plain, err := slide.Render("print(1)", slide.DefaultOptions())
	require.NoError(t, err)
	img, err := slide.Render("print(1)", o)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, plain.Bounds().Dx()+100, b.Dx())
	assert.Equal(t, plain.Bounds().Dy()+100, b.Dy())

	assert.Equal(t, hex(t, "#BD93F9"), img.RGBAAt(0, 0))
	assert.Equal(t, hex(t, "#FF79C6"), img.RGBAAt(0, b.Dy()-1))
	// The window corner shows the backdrop, its body the bar.
	assert.Equal(t, uint8(0xff), img.RGBAAt(50, 50).A)
	assert.NotEqual(t, hex(t, o.BarColor), img.RGBAAt(50, 50))
	assert.Equal(t, hex(t, o.BarColor), img.RGBAAt(b.Dx()/2, 51))
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty code", func(t *testing.T) {
		t.Parallel()
		_, err := slide.Render("\n", slide.DefaultOptions())
		require.ErrorIs(t, err, slide.ErrEmptyCode)
	})

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()
		o := slide.DefaultOptions()
		o.FontSize = 0
		_, err := slide.Render("x", o)
		require.ErrorIs(t, err, slide.ErrInvalidOptions)
	})

	t.Run("oversized button radius", func(t *testing.T) {
		t.Parallel()
		o := slide.DefaultOptions()
		o.ButtonRadius = 200000
		_, err := slide.Render("x = 1", o)
		require.ErrorIs(t, err, slide.ErrInvalidOptions)
	})

	t.Run("image too tall", func(t *testing.T) {
		t.Parallel()
		code := strings.Repeat("x = 1\n", 300)
		_, err := slide.Render(code, slide.DefaultOptions())
		require.ErrorIs(t, err, slide.ErrInvalidOptions)
	})

	t.Run("missing font", func(t *testing.T) {
		t.Parallel()
		o := slide.DefaultOptions()
		o.Font = filepath.Join(t.TempDir(), "nope.ttf")
		_, err := slide.Render("x", o)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not a font", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "junk.ttf")
		require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o600))
		o := slide.DefaultOptions()
		o.Font = path
		_, err := slide.Render("x", o)
		require.Error(t, err)
	})
}
