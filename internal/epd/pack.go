package epd

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/geink/internal/config"
)

// Frame is a packed framebuffer. It implements image.Image so a frame can
// be previewed without unpacking it first.
type Frame struct {
	Pix          []byte
	Width        int
	Height       int
	BitsPerPixel int
	Layout       Layout
}

// Index maps an 8-bit intensity to a bpp-bit index: v * 2^bpp / 256.
func Index(v uint8, bpp int) uint8 {
	return uint8(int(v) << bpp >> 8)
}

// Value maps an index back to the intensity of its level.
func Value(idx uint8, bpp int) uint8 {
	levels := 1 << bpp
	return uint8(int(idx) * 255 / (levels - 1))
}

// bitWriter accumulates bpp-bit indices into bytes, most significant first.
type bitWriter struct {
	buf []byte
	bpp uint
	ppb int
	cur byte
	n   int
}

func (w *bitWriter) write(idx uint8) {
	w.cur = w.cur<<w.bpp | idx
	w.n++
	if w.n == w.ppb {
		w.buf = append(w.buf, w.cur)
		w.cur, w.n = 0, 0
	}
}

// flush emits a partially filled byte, left-aligned.
func (w *bitWriter) flush() {
	if w.n == 0 {
		return
	}
	w.buf = append(w.buf, w.cur<<(w.bpp*uint(w.ppb-w.n)))
	w.cur, w.n = 0, 0
}

// Pack converts img into a frame of bpp bits per pixel. A bpp outside
// {1, 2, 4, 8} is a *config.Error.
func Pack(img *image.Gray, bpp int, layout Layout) (*Frame, error) {
	if err := config.ValidateBitsPerPixel(bpp); err != nil {
		return nil, err
	}
	if layout != RowAligned && layout != Flat {
		return nil, fmt.Errorf("unknown layout %v", layout)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bw := &bitWriter{
		buf: make([]byte, 0, Size(w, h, bpp, layout)),
		bpp: uint(bpp),
		ppb: PixelsPerByte(bpp),
	}

	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			bw.write(Index(row[x], bpp))
		}
		if layout == RowAligned {
			bw.flush()
		}
	}
	bw.flush()

	return &Frame{
		Pix:          bw.buf,
		Width:        w,
		Height:       h,
		BitsPerPixel: bpp,
		Layout:       layout,
	}, nil
}

// pixOffset returns the byte holding (x, y) and the shift of its index.
func (f *Frame) pixOffset(x, y int) (offset int, shift uint) {
	var bit int
	if f.Layout == Flat {
		bit = (y*f.Width + x) * f.BitsPerPixel
	} else {
		bit = y*RowBytes(f.Width, f.BitsPerPixel)*8 + x*f.BitsPerPixel
	}
	return bit / 8, uint(8 - f.BitsPerPixel - bit%8)
}

// IndexAt returns the packed index of the pixel at (x, y), or 0 outside
// the frame.
func (f *Frame) IndexAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	offset, shift := f.pixOffset(x, y)
	mask := uint8(1<<f.BitsPerPixel - 1)
	return f.Pix[offset] >> shift & mask
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return color.Gray{Y: Value(f.IndexAt(x, y), f.BitsPerPixel)}
}
