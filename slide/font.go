package slide

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Faces holds one face per token weight and slant.
type Faces struct {
	Regular    font.Face
	Bold       font.Face
	Italic     font.Face
	BoldItalic font.Face
}

// LoadFaces opens the fonts named by o at o.FontSize.
func LoadFaces(o Options) (*Faces, error) {
	if o.Font == "" {
		return goMono(o.FontSize)
	}
	regular, err := loadFace(o.Font, o.FontSize)
	if err != nil {
		return nil, err
	}
	f := &Faces{Regular: regular, Bold: regular, Italic: regular, BoldItalic: regular}
	if o.BoldFont != "" {
		if f.Bold, err = loadFace(o.BoldFont, o.FontSize); err != nil {
			f.Close()
			return nil, err
		}
		f.BoldItalic = f.Bold
	}
	if o.ItalicFont != "" {
		if f.Italic, err = loadFace(o.ItalicFont, o.FontSize); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func goMono(size float64) (*Faces, error) {
	var faces [4]font.Face
	for i, ttf := range [][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF} {
		face, err := newFace(ttf, size)
		if err != nil {
			for _, opened := range faces[:i] {
				opened.Close()
			}
			return nil, fmt.Errorf("slide: go mono: %w", err)
		}
		faces[i] = face
	}
	return &Faces{Regular: faces[0], Bold: faces[1], Italic: faces[2], BoldItalic: faces[3]}, nil
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("slide: font: %w", err)
	}
	face, err := newFace(data, size)
	if err != nil {
		return nil, fmt.Errorf("slide: font %s: %w", path, err)
	}
	return face, nil
}

func newFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Face returns the face for a run's weight and slant.
func (f *Faces) Face(bold, italic bool) font.Face {
	switch {
	case bold && italic:
		return f.BoldItalic
	case bold:
		return f.Bold
	case italic:
		return f.Italic
	}
	return f.Regular
}

// Advance returns the width of one monospace cell.
func (f *Faces) Advance() fixed.Int26_6 {
	if adv, ok := f.Regular.GlyphAdvance('0'); ok && adv > 0 {
		return adv
	}
	return fixed.I(f.Regular.Metrics().Height.Ceil() / 2)
}

// Close releases every distinct face.
func (f *Faces) Close() error {
	seen := make(map[font.Face]bool)
	for _, face := range []font.Face{f.Regular, f.Bold, f.Italic, f.BoldItalic} {
		if face == nil || seen[face] {
			continue
		}
		seen[face] = true
		face.Close()
	}
	return nil
}
