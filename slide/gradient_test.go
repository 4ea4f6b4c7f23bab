package slide_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/fwojciec/tinker/slide"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blackToWhite(dir slide.Direction) slide.Gradient {
	return slide.Gradient{
		Stops:     []slide.Stop{{Color: "#000000", Offset: 0}, {Color: "#FFFFFF", Offset: 1}},
		Direction: dir,
	}
}

func TestRamp_AtRGB(t *testing.T) {
	t.Parallel()

	r, err := blackToWhite(slide.Vertical).Compile()
	require.NoError(t, err)

	tests := []struct {
		t    float64
		want uint8
	}{
		{0, 0},
		{0.25, 64},
		{0.5, 128},
		{1, 255},
		{-1, 0},
		{2, 255},
	}
	for _, tt := range tests {
		c := r.At(tt.t)
		red, green, blue := c.RGB255()
		assert.Equal(t, tt.want, red, "t=%g", tt.t)
		assert.Equal(t, red, green)
		assert.Equal(t, red, blue)
	}
}

func TestRamp_AtPiecewise(t *testing.T) {
	t.Parallel()

	g := slide.Gradient{Stops: []slide.Stop{
		{Color: "#FF0000", Offset: 1},
		{Color: "#000000", Offset: 0},
		{Color: "#0000FF", Offset: 0.5},
	}}
	r, err := g.Compile()
	require.NoError(t, err)

	red, _, blue := r.At(0.5).RGB255()
	assert.Equal(t, uint8(0), red)
	assert.Equal(t, uint8(255), blue)

	red, _, blue = r.At(0.75).RGB255()
	assert.Equal(t, uint8(128), red)
	assert.Equal(t, uint8(128), blue)
}

func TestRamp_AtLabKeepsEndpoints(t *testing.T) {
	t.Parallel()

	g := slide.Gradient{
		Stops: []slide.Stop{{Color: "#BD93F9"}, {Color: "#FF79C6"}},
		Space: slide.Lab,
	}
	r, err := g.Compile()
	require.NoError(t, err)

	assert.Equal(t, "#bd93f9", r.At(0).Hex())
	assert.Equal(t, "#ff79c6", r.At(1).Hex())
	assert.True(t, r.At(0.5).IsValid())
}

func TestGradient_CompileSpreadsZeroOffsets(t *testing.T) {
	t.Parallel()

	g := slide.Gradient{Stops: []slide.Stop{{Color: "#000"}, {Color: "#fff"}, {Color: "#000"}}}
	r, err := g.Compile()
	require.NoError(t, err)

	red, _, _ := r.At(0.5).RGB255()
	assert.Equal(t, uint8(255), red)
	red, _, _ = r.At(1).RGB255()
	assert.Equal(t, uint8(0), red)
}

func TestGradient_CompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		g    slide.Gradient
		want error
	}{
		{"no stops", slide.Gradient{}, slide.ErrInvalidGradient},
		{"bad color", slide.Gradient{Stops: []slide.Stop{{Color: "#12"}}}, slide.ErrInvalidColor},
		{"offset out of range", slide.Gradient{Stops: []slide.Stop{{Color: "#000", Offset: 1.5}}}, slide.ErrInvalidGradient},
		{"bad direction", slide.Gradient{Stops: []slide.Stop{{Color: "#000"}}, Direction: "radial"}, slide.ErrInvalidGradient},
		{"bad space", slide.Gradient{Stops: []slide.Stop{{Color: "#000"}}, Space: "hsv"}, slide.ErrInvalidGradient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.g.Compile()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRamp_Fill(t *testing.T) {
	t.Parallel()

	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	mid := color.RGBA{R: 128, G: 128, B: 128, A: 0xff}

	t.Run("vertical varies by row", func(t *testing.T) {
		t.Parallel()
		r, err := blackToWhite(slide.Vertical).Compile()
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 4, 3))
		r.Fill(img, img.Bounds())
		for x := 0; x < 4; x++ {
			assert.Equal(t, black, img.RGBAAt(x, 0))
			assert.Equal(t, mid, img.RGBAAt(x, 1))
			assert.Equal(t, white, img.RGBAAt(x, 2))
		}
	})

	t.Run("horizontal varies by column", func(t *testing.T) {
		t.Parallel()
		r, err := blackToWhite(slide.Horizontal).Compile()
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 3, 2))
		r.Fill(img, img.Bounds())
		for y := 0; y < 2; y++ {
			assert.Equal(t, black, img.RGBAAt(0, y))
			assert.Equal(t, mid, img.RGBAAt(1, y))
			assert.Equal(t, white, img.RGBAAt(2, y))
		}
	})

	t.Run("diagonal runs corner to corner", func(t *testing.T) {
		t.Parallel()
		r, err := blackToWhite(slide.Diagonal).Compile()
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 3, 3))
		r.Fill(img, img.Bounds())
		assert.Equal(t, black, img.RGBAAt(0, 0))
		assert.Equal(t, white, img.RGBAAt(2, 2))
		assert.Equal(t, img.RGBAAt(2, 0), img.RGBAAt(0, 2))
		assert.Equal(t, mid, img.RGBAAt(1, 1))
	})

	t.Run("only touches rect", func(t *testing.T) {
		t.Parallel()
		r, err := blackToWhite(slide.Vertical).Compile()
		require.NoError(t, err)
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		r.Fill(img, image.Rect(1, 1, 3, 3))
		assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
		assert.Equal(t, black, img.RGBAAt(1, 1))
		assert.Equal(t, white, img.RGBAAt(2, 2))
	})
}

func TestParseStops(t *testing.T) {
	t.Parallel()

	stops, err := slide.ParseStops("#000@0, #333@0.8,#fff@1")
	require.NoError(t, err)
	assert.Equal(t, []slide.Stop{
		{Color: "#000", Offset: 0},
		{Color: "#333", Offset: 0.8},
		{Color: "#fff", Offset: 1},
	}, stops)

	stops, err = slide.ParseStops("#BD93F9,#FF79C6")
	require.NoError(t, err)
	assert.Len(t, stops, 2)

	_, err = slide.ParseStops("#000@half")
	require.ErrorIs(t, err, slide.ErrInvalidGradient)

	_, err = slide.ParseStops("purple")
	require.ErrorIs(t, err, slide.ErrInvalidColor)

	_, err = slide.ParseStops(" , ")
	require.ErrorIs(t, err, slide.ErrInvalidGradient)
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := slide.ParseColor("#282A36")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}, c)

	c, err = slide.ParseColor("f80")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x88, B: 0x00, A: 0xff}, c)

	for _, bad := range []string{"", "#12345", "#GGGGGG", "#1234567"} {
		_, err := slide.ParseColor(bad)
		assert.ErrorIs(t, err, slide.ErrInvalidColor, bad)
	}
}
