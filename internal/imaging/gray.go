package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Grayscale converts img to a single-channel image anchored at (0,0).
//
// Intensity images are copied as-is. Color images use ITU-R BT.601 luma
// (0.299*R + 0.587*G + 0.114*B) rounded half-up; alpha is ignored.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return cloneGray(g, g.Bounds())
	}

	// imaging.Grayscale writes the luma into all three channels.
	luma := imaging.Grayscale(img)
	w, h := luma.Rect.Dx(), luma.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := luma.Pix[y*luma.Stride : y*luma.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return out
}

// cloneGray copies the r region of g into a new image anchored at (0,0).
func cloneGray(g *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(g.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		i := g.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], g.Pix[i:i+r.Dx()])
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
