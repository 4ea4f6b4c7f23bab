package slide

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an output image encoding.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// FormatFor returns the format implied by a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	}
	return "", fmt.Errorf("slide: %w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode writes img to w. JPEG has no alpha channel, so transparent pixels
// come out black.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("slide: %w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("slide: encode %s: %w", f, err)
	}
	return nil
}

// Save writes img to path in the format named by its extension. Parent
// directories are created and the file is replaced atomically.
func Save(img image.Image, path string) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("slide: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("slide: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, img, f); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("slide: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("slide: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("slide: %w", err)
	}
	return nil
}
