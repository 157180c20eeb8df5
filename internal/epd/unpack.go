package epd

import (
	"bytes"
	"fmt"
	"image"

	"github.com/32bitkid/bitreader"
	"github.com/ironsheep/geink/internal/config"
)

// Unpack decodes a packed frame back into a grayscale image. Each index is
// expanded to the intensity of its level, so packing the result again
// yields the same bytes. The buffer length must equal Size exactly.
func Unpack(data []byte, w, h, bpp int, layout Layout) (*image.Gray, error) {
	if err := config.ValidateBitsPerPixel(bpp); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	if want := Size(w, h, bpp, layout); len(data) != want {
		return nil, fmt.Errorf("frame is %d bytes, want %d for %dx%d at %d bpp (%v)",
			len(data), want, w, h, bpp, layout)
	}

	// Pad bits at the end of each row-aligned row.
	var pad uint
	if layout == RowAligned {
		pad = uint(RowBytes(w, bpp)*8 - w*bpp)
	}

	br := bitreader.NewReader(bytes.NewReader(data))
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			idx, err := br.Read8(uint(bpp))
			if err != nil {
				return nil, fmt.Errorf("failed to read pixel (%d,%d): %w", x, y, err)
			}
			row[x] = Value(idx, bpp)
		}
		if pad > 0 {
			if err := br.Skip(pad); err != nil {
				return nil, fmt.Errorf("failed to skip row %d padding: %w", y, err)
			}
		}
	}
	return out, nil
}

// Gray unpacks f into a grayscale image.
func (f *Frame) Gray() (*image.Gray, error) {
	return Unpack(f.Pix, f.Width, f.Height, f.BitsPerPixel, f.Layout)
}
