package imaging

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBounds(t *testing.T) {
	img := solidGray(400, 300, 255)
	fillRect(img, 150, 100, 250, 200, 0)

	box := DetectBounds(img, DefaultThreshold)
	assert.Equal(t, BoundingBox{Left: 145, Right: 255, Top: 95, Bottom: 205}, box)
	assert.Equal(t, 110, box.Width())
	assert.Equal(t, 110, box.Height())
	assert.Equal(t, "(145,255,95,205)", box.String())
}

func TestDetectBounds_Uniform(t *testing.T) {
	box := DetectBounds(solidGray(64, 48, 17), DefaultThreshold)
	assert.Equal(t, BoundingBox{Left: 0, Right: 64, Top: 0, Bottom: 48}, box)
}

func TestDetectBounds_Threshold(t *testing.T) {
	img := solidGray(100, 100, 255)
	fillRect(img, 40, 40, 60, 60, 250)

	// A difference of 5 is below 255-240.
	assert.Equal(t, BoundingBox{Left: 0, Right: 100, Top: 0, Bottom: 100}, DetectBounds(img, 240))
	// With threshold 250 the limit is 5, which the patch reaches.
	assert.Equal(t, BoundingBox{Left: 35, Right: 65, Top: 35, Bottom: 65}, DetectBounds(img, 250))
}

func TestDetectBounds_ClampsMargin(t *testing.T) {
	img := solidGray(50, 50, 255)
	img.SetGray(1, 1, color.Gray{Y: 0})
	img.SetGray(48, 48, color.Gray{Y: 0})

	// The corner pixels stay white so the background is still sampled as white.
	assert.Equal(t, BoundingBox{Left: 0, Right: 50, Top: 0, Bottom: 50}, DetectBounds(img, DefaultThreshold))
}

func TestDetectBounds_RGB(t *testing.T) {
	img := solidRGB(120, 80, color.NRGBA{0, 0, 0, 255})
	for y := 30; y < 40; y++ {
		for x := 60; x < 70; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 0, 0, 255})
		}
	}

	assert.Equal(t, BoundingBox{Left: 55, Right: 75, Top: 25, Bottom: 45}, DetectBounds(img, DefaultThreshold))
}
