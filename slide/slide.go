// Package slide renders source code as a "terminal window" raster image.
//
// Code is tokenized and colored with chroma, laid out on a monospace cell
// grid and drawn with x/image/font faces below a title bar carrying three
// window buttons. Curved edges (the buttons and optional window corners) are
// rasterized at a multiple of the target resolution and downsampled with a
// Catmull-Rom filter. The window can be placed on a gradient backdrop.
package slide

import "errors"

// Sentinel errors. Returned errors wrap these with context.
var (
	ErrEmptyCode         = errors.New("empty code")
	ErrInvalidOptions    = errors.New("invalid options")
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrUnknownStyle      = errors.New("unknown style")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidGradient   = errors.New("invalid gradient")
)
