package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultSolidTolerance is the border variance below which a background
// counts as a single flat color.
const DefaultSolidTolerance = 30.0

// Pixel is one sample with either one channel (intensity) or three (RGB).
// Only the first Channels entries of V are meaningful.
type Pixel struct {
	Channels int
	V        [3]uint8
}

// GrayPixel returns a single-channel pixel.
func GrayPixel(y uint8) Pixel {
	return Pixel{Channels: 1, V: [3]uint8{y}}
}

// RGBPixel returns a three-channel pixel.
func RGBPixel(r, g, b uint8) Pixel {
	return Pixel{Channels: 3, V: [3]uint8{r, g, b}}
}

// Distance is the Euclidean distance between p and q over p's channels.
func (p Pixel) Distance(q Pixel) float64 {
	var sum float64
	for c := 0; c < p.Channels; c++ {
		d := float64(p.V[c]) - float64(q.V[c])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Color converts p to an opaque color.Color of the matching model.
func (p Pixel) Color() color.Color {
	if p.Channels == 1 {
		return color.Gray{Y: p.V[0]}
	}
	return color.NRGBA{R: p.V[0], G: p.V[1], B: p.V[2], A: 0xff}
}

// Hex renders p as "#rrggbb"; intensity pixels repeat the single channel.
func (p Pixel) Hex() string {
	r, g, b := p.V[0], p.V[1], p.V[2]
	if p.Channels == 1 {
		g, b = r, r
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// raster is a read-only view of an image with direct channel access.
// Intensity images keep one channel; everything else is read as
// non-premultiplied RGB with alpha ignored.
type raster struct {
	w, h     int
	channels int
	stride   int
	step     int
	pix      []uint8
}

func newRaster(img image.Image) *raster {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok {
		return &raster{
			w:        b.Dx(),
			h:        b.Dy(),
			channels: 1,
			stride:   g.Stride,
			step:     1,
			pix:      g.Pix[g.PixOffset(b.Min.X, b.Min.Y):],
		}
	}
	n, ok := img.(*image.NRGBA)
	if !ok {
		n = imaging.Clone(img)
	}
	return &raster{
		w:        b.Dx(),
		h:        b.Dy(),
		channels: 3,
		stride:   n.Stride,
		step:     4,
		pix:      n.Pix[n.PixOffset(n.Rect.Min.X, n.Rect.Min.Y):],
	}
}

func (r *raster) at(x, y int) Pixel {
	i := y*r.stride + x*r.step
	if r.channels == 1 {
		return GrayPixel(r.pix[i])
	}
	return RGBPixel(r.pix[i], r.pix[i+1], r.pix[i+2])
}

func channelCount(img image.Image) int {
	if _, ok := img.(*image.Gray); ok {
		return 1
	}
	return 3
}

// SampleBackground estimates the background as the most frequent of the
// four corner pixels, ties going to the corner seen first (top-left,
// top-right, bottom-left, bottom-right).
func SampleBackground(img image.Image) Pixel {
	return sampleBackground(newRaster(img))
}

func sampleBackground(r *raster) Pixel {
	if r.w == 0 || r.h == 0 {
		return Pixel{Channels: r.channels}
	}
	corners := [4]Pixel{
		r.at(0, 0),
		r.at(r.w-1, 0),
		r.at(0, r.h-1),
		r.at(r.w-1, r.h-1),
	}

	best, bestCount := corners[0], 0
	for i, c := range corners {
		count := 0
		for _, o := range corners {
			if o == c {
				count++
			}
		}
		// Strict > keeps the earliest corner on ties.
		if count > bestCount {
			best, bestCount = corners[i], count
		}
	}
	return best
}

// IsSolidBackground reports whether the border of img is a single flat
// color: the mean squared distance of the border pixels (rows 0 and h-1,
// columns 0 and w-1, corners included in both) from their mean is below
// tolerance. An image without pixels is solid.
func IsSolidBackground(img image.Image, tolerance float64) bool {
	return borderVariance(newRaster(img)) < tolerance
}

// BorderVariance returns the value IsSolidBackground compares against
// its tolerance.
func BorderVariance(img image.Image) float64 {
	return borderVariance(newRaster(img))
}

func borderVariance(r *raster) float64 {
	if r.w == 0 || r.h == 0 {
		return 0
	}

	border := make([]Pixel, 0, 2*r.w+2*r.h)
	for x := 0; x < r.w; x++ {
		border = append(border, r.at(x, 0), r.at(x, r.h-1))
	}
	for y := 0; y < r.h; y++ {
		border = append(border, r.at(0, y), r.at(r.w-1, y))
	}

	var mean [3]float64
	for _, p := range border {
		for c := 0; c < r.channels; c++ {
			mean[c] += float64(p.V[c])
		}
	}
	n := float64(len(border))
	for c := range mean {
		mean[c] /= n
	}

	var variance float64
	for _, p := range border {
		for c := 0; c < r.channels; c++ {
			d := float64(p.V[c]) - mean[c]
			variance += d * d
		}
	}
	return variance / n
}
