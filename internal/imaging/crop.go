package imaging

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// RatioTolerance is how close two aspect ratios must be to count as equal.
const RatioTolerance = 0.01

// Strategy names the reframing path that was taken.
type Strategy string

const (
	// StrategyPad grows the canvas with the background color.
	StrategyPad Strategy = "pad"

	// StrategyCrop trims the image symmetrically.
	StrategyCrop Strategy = "crop"
)

// Crop extracts box from img. Intensity images stay *image.Gray; other
// images come back as *image.NRGBA. The result is anchored at (0,0).
func Crop(img image.Image, box BoundingBox) image.Image {
	r := box.Rect(img)
	if g, ok := img.(*image.Gray); ok {
		return cloneGray(g, r)
	}
	return imaging.Crop(img, r)
}

// TargetRatio picks the aspect ratio a w x h image should be reframed to:
// targetW/targetH for landscape or square images, its reciprocal for
// portrait ones.
func TargetRatio(w, h, targetW, targetH int) float64 {
	if w >= h {
		return float64(targetW) / float64(targetH)
	}
	return float64(targetH) / float64(targetW)
}

func ratioOf(img image.Image) float64 {
	b := img.Bounds()
	return float64(b.Dx()) / float64(b.Dy())
}

// CropToRatio trims img symmetrically to ratio (width / height), keeping
// the center. Images already within RatioTolerance are returned as-is.
// The trimmed side never drops below one pixel.
func CropToRatio(img image.Image, ratio float64) image.Image {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	current := ratioOf(img)

	if math.Abs(current-ratio) < RatioTolerance {
		return img
	}

	var box BoundingBox
	if current > ratio {
		newWidth := max(int(float64(height)*ratio), 1)
		left := (width - newWidth) / 2
		box = BoundingBox{Left: left, Right: left + newWidth, Top: 0, Bottom: height}
	} else {
		newHeight := max(int(float64(width)/ratio), 1)
		top := (height - newHeight) / 2
		box = BoundingBox{Left: 0, Right: width, Top: top, Bottom: top + newHeight}
	}
	return Crop(img, box)
}

// PadToRatio grows img to the smallest canvas at the target panel ratio
// that contains it, centered, filling the new area with the background
// sampled from img's corners. The ratio follows TargetRatio. Images
// already within RatioTolerance are returned as-is.
func PadToRatio(img image.Image, targetW, targetH int) image.Image {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	ratio := TargetRatio(width, height, targetW, targetH)
	current := ratioOf(img)

	if math.Abs(current-ratio) < RatioTolerance {
		return img
	}

	bg := SampleBackground(img)
	newWidth, newHeight := width, height
	if current > ratio {
		newHeight = max(int(float64(width)/ratio), height)
	} else {
		newWidth = max(int(float64(height)*ratio), width)
	}
	offset := image.Pt((newWidth-width)/2, (newHeight-height)/2)

	if g, ok := img.(*image.Gray); ok {
		canvas := image.NewGray(image.Rect(0, 0, newWidth, newHeight))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg.Color()), image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(b.Size())}, g, b.Min, draw.Src)
		return canvas
	}

	canvas := imaging.New(newWidth, newHeight, bg.Color())
	return imaging.Paste(canvas, img, offset)
}

// Reframe brings img to the panel ratio: padding when the border is a
// solid color, cropping when it is textured.
func Reframe(img image.Image, targetW, targetH int, tolerance float64) (image.Image, Strategy) {
	if IsSolidBackground(img, tolerance) {
		return PadToRatio(img, targetW, targetH), StrategyPad
	}
	b := img.Bounds()
	ratio := TargetRatio(b.Dx(), b.Dy(), targetW, targetH)
	return CropToRatio(img, ratio), StrategyCrop
}
