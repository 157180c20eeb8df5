package dither

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/ironsheep/geink/internal/config"
)

// MaxLevels is the largest level count an 8-bit image can represent.
const MaxLevels = 256

// Dither reduces img to levels evenly spaced intensities using method m.
// The input is never modified; the result is anchored at (0,0). A level
// count outside [2, MaxLevels] is a *config.Error.
func Dither(img *image.Gray, m Method, levels int) (*image.Gray, error) {
	if err := checkLevels(levels); err != nil {
		return nil, err
	}
	if !m.valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMethod, m)
	}
	if m.Ordered() {
		return ordered(img, m, levels), nil
	}
	return diffuse(img, m.Kernel(), levels), nil
}

func checkLevels(levels int) error {
	if levels < 2 || levels > MaxLevels {
		return &config.Error{
			Key:    config.KeyColorLevels,
			Value:  strconv.Itoa(levels),
			Reason: fmt.Sprintf("must be between 2 and %d", MaxLevels),
		}
	}
	return nil
}

// levelValues returns levels evenly spaced values spanning [0, 255].
func levelValues(levels int) []float64 {
	vs := make([]float64, levels)
	for i := range vs {
		vs[i] = float64(i) * 255 / float64(levels-1)
	}
	return vs
}

// nearest returns the level closest to v, the lower one on ties. Levels
// are evenly spaced, so only the two levels bracketing v can win.
func nearest(v float64, values []float64) float64 {
	last := len(values) - 1
	step := 255 / float64(last)
	lo := int(math.Floor(v / step))
	if lo < 0 {
		return values[0]
	}
	if lo >= last {
		return values[last]
	}
	if math.Abs(values[lo+1]-v) < math.Abs(values[lo]-v) {
		return values[lo+1]
	}
	return values[lo]
}

// diffuse runs raster-order error diffusion over a float copy of img.
func diffuse(img *image.Gray, k Kernel, levels int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	values := levelValues(levels)

	buf := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			buf[y*w+x] = float64(row[x])
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := buf[i]
			q := nearest(old, values)
			buf[i] = q

			diff := old - q
			if diff == 0 {
				continue
			}
			for _, t := range k {
				nx, ny := x+t.Dx, y+t.Dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				buf[ny*w+nx] += diff * t.Weight
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range buf {
		out.Pix[i] = toUint8(v)
	}
	return out
}

// toUint8 clamps v to [0, 255] and truncates.
func toUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
