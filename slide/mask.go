package slide

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Circle returns an anti-aliased disc mask of the given radius, 2r pixels
// square. The disc is rasterized at n times the resolution and downsampled
// with Catmull-Rom.
func Circle(radius, n int) *image.Alpha {
	if radius <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 0, 0))
	}
	n = max(n, 1)
	size := 2 * radius * n
	big := image.NewAlpha(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	r2 := c * c
	for y := 0; y < size; y++ {
		dy := float64(y) + 0.5 - c
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - c
			if dx*dx+dy*dy <= r2 {
				big.Pix[y*big.Stride+x] = 0xff
			}
		}
	}
	return downsample(big, 2*radius, 2*radius)
}

// RoundedRect returns a w×h mask that is opaque except for anti-aliased
// quarter-circle corners of the given radius. The radius is clamped to half
// the shorter side.
func RoundedRect(w, h, radius, n int) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(m, m.Bounds(), image.NewUniform(color.Opaque), image.Point{}, draw.Src)
	radius = min(radius, w/2, h/2)
	if radius <= 0 {
		return m
	}
	disc := Circle(radius, n)
	// Each corner takes the matching quadrant of the disc.
	corners := []struct{ src, dst image.Point }{
		{image.Pt(0, 0), image.Pt(0, 0)},
		{image.Pt(radius, 0), image.Pt(w-radius, 0)},
		{image.Pt(0, radius), image.Pt(0, h-radius)},
		{image.Pt(radius, radius), image.Pt(w-radius, h-radius)},
	}
	for _, c := range corners {
		dst := image.Rectangle{Min: c.dst, Max: c.dst.Add(image.Pt(radius, radius))}
		draw.Draw(m, dst, disc, c.src, draw.Src)
	}
	return m
}

func downsample(src *image.Alpha, w, h int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
