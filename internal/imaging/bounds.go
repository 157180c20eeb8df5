package imaging

import (
	"fmt"
	"image"
)

const (
	// DefaultThreshold is the bounds detector sensitivity. A pixel is
	// foreground when its distance from the background is at least
	// 255 - threshold, so higher values are stricter.
	DefaultThreshold = 240

	// BoundsMargin is added around the tight foreground box.
	BoundsMargin = 5
)

// BoundingBox is a pixel region relative to the image origin. Left and Top
// are inclusive, Right and Bottom exclusive.
type BoundingBox struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Width is Right - Left.
func (b BoundingBox) Width() int { return b.Right - b.Left }

// Height is Bottom - Top.
func (b BoundingBox) Height() int { return b.Bottom - b.Top }

// Rect converts b to an image.Rectangle in the coordinate space of img.
func (b BoundingBox) Rect(img image.Image) image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom).Add(img.Bounds().Min)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.Left, b.Right, b.Top, b.Bottom)
}

// DetectBounds finds the box around every pixel that differs from the
// sampled background by at least 255 - threshold, grown by BoundsMargin on
// each side and clamped to the image. When nothing qualifies the full
// image box is returned.
func DetectBounds(img image.Image, threshold int) BoundingBox {
	r := newRaster(img)
	bg := sampleBackground(r)
	limit := float64(255 - threshold)

	left, right, top, bottom := r.w, -1, r.h, -1
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			if r.at(x, y).Distance(bg) < limit {
				continue
			}
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
			if y < top {
				top = y
			}
			if y > bottom {
				bottom = y
			}
		}
	}

	if right < 0 {
		return BoundingBox{Left: 0, Right: r.w, Top: 0, Bottom: r.h}
	}

	return BoundingBox{
		Left:   clamp(left-BoundsMargin, 0, r.w),
		Right:  clamp(right+1+BoundsMargin, 0, r.w),
		Top:    clamp(top-BoundsMargin, 0, r.h),
		Bottom: clamp(bottom+1+BoundsMargin, 0, r.h),
	}
}
