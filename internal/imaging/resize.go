package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// TargetSize returns the output dimensions for a w x h image: the panel
// size for landscape or square images, swapped for portrait ones.
func TargetSize(w, h, targetW, targetH int) (int, int) {
	if w >= h {
		return targetW, targetH
	}
	return targetH, targetW
}

// ResizeToTarget scales img to the panel size with a Lanczos filter,
// choosing orientation with TargetSize. Intensity images stay *image.Gray.
func ResizeToTarget(img image.Image, targetW, targetH int) image.Image {
	b := img.Bounds()
	w, h := TargetSize(b.Dx(), b.Dy(), targetW, targetH)
	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	if _, ok := img.(*image.Gray); ok {
		return Grayscale(resized)
	}
	return resized
}

// ResizeExact scales img to exactly w x h with nearest-neighbor sampling,
// which keeps an already quantized image on its levels.
func ResizeExact(img image.Image, w, h int) image.Image {
	resized := imaging.Resize(img, w, h, imaging.NearestNeighbor)
	if _, ok := img.(*image.Gray); ok {
		return Grayscale(resized)
	}
	return resized
}

// resizeFit scales img with Lanczos; a zero w or h keeps the aspect ratio.
func resizeFit(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
