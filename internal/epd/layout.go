package epd

import (
	"fmt"
	"strings"

	"github.com/ironsheep/geink/internal/config"
)

// Layout selects how rows map onto bytes.
type Layout int

const (
	// RowAligned pads every row to a whole byte.
	RowAligned Layout = iota

	// Flat packs pixels continuously across row boundaries.
	Flat
)

// ParseLayout accepts "row" and "flat".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "row_aligned":
		return RowAligned, nil
	case "flat":
		return Flat, nil
	}
	return 0, &config.Error{Key: config.KeyLayout, Value: s, Reason: `must be "row" or "flat"`}
}

func (l Layout) String() string {
	switch l {
	case RowAligned:
		return "row"
	case Flat:
		return "flat"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// PixelsPerByte is 8 / bpp.
func PixelsPerByte(bpp int) int {
	return 8 / bpp
}

// RowBytes is the number of bytes one row-aligned row occupies.
func RowBytes(width, bpp int) int {
	return (width*bpp + 7) / 8
}

// Size is the exact length of a packed w x h frame.
func Size(w, h, bpp int, layout Layout) int {
	if layout == Flat {
		return (w*h*bpp + 7) / 8
	}
	return RowBytes(w, bpp) * h
}
