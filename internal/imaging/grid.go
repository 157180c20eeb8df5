package imaging

import (
	"fmt"
	"image"
)

// Tile is one cell of a GridCut, with its position in the grid and the
// region of the source image it covers.
type Tile struct {
	Row    int
	Col    int
	Bounds BoundingBox
	Image  image.Image
}

// Name is the file stem used when a tile is written to disk.
func (t Tile) Name() string {
	return fmt.Sprintf("r%d_c%d", t.Row, t.Col)
}

// GridCut splits img into rows x cols tiles in row-major order. Every
// tile is h/rows high and w/cols wide except the last row and column,
// which also take the remainder, so the tiles cover the image exactly.
func GridCut(img image.Image, rows, cols int) ([]Tile, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", rows, cols)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if rows > height || cols > width {
		return nil, fmt.Errorf("grid %dx%d does not fit image %dx%d", rows, cols, width, height)
	}

	tileW := width / cols
	tileH := height / rows

	tiles := make([]Tile, 0, rows*cols)
	for r := 0; r < rows; r++ {
		top := r * tileH
		bottom := top + tileH
		if r == rows-1 {
			bottom = height
		}
		for c := 0; c < cols; c++ {
			left := c * tileW
			right := left + tileW
			if c == cols-1 {
				right = width
			}
			box := BoundingBox{Left: left, Right: right, Top: top, Bottom: bottom}
			tiles = append(tiles, Tile{
				Row:    r,
				Col:    c,
				Bounds: box,
				Image:  Crop(img, box),
			})
		}
	}
	return tiles, nil
}
