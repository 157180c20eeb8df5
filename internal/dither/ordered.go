package dither

import (
	"image"
	"image/color"

	mwdither "github.com/makeworld-the-better-one/dither/v2"
)

// bayerStrength scales the threshold matrix for a two-level palette.
// It is divided by the number of level steps so the thresholds always span
// one step.
const bayerStrength = 1.0

// GrayPalette returns levels evenly spaced grays from black to white, in
// level order.
func GrayPalette(levels int) color.Palette {
	values := levelValues(levels)
	p := make(color.Palette, levels)
	for i, v := range values {
		p[i] = color.Gray{Y: toUint8(v)}
	}
	return p
}

func ordered(img *image.Gray, m Method, levels int) *image.Gray {
	palette := GrayPalette(levels)
	d := mwdither.NewDitherer(palette)

	size := uint(4)
	if m == Bayer8x8 {
		size = 8
	}
	d.Mapper = mwdither.Bayer(size, size, bayerStrength/float32(levels-1))

	p := d.DitherPaletted(img)
	b := p.Bounds()
	w, h := b.Dx(), b.Dy()

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := p.Pix[p.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			dst[x] = color.GrayModel.Convert(p.Palette[src[x]]).(color.Gray).Y
		}
	}
	return out
}
