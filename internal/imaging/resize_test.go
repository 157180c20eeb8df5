package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetSize(t *testing.T) {
	w, h := TargetSize(1000, 600, 800, 480)
	assert.Equal(t, [2]int{800, 480}, [2]int{w, h})

	w, h = TargetSize(600, 1000, 800, 480)
	assert.Equal(t, [2]int{480, 800}, [2]int{w, h})
}

func TestResizeToTarget(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want image.Rectangle
	}{
		{"landscape rgb", solidRGB(1000, 600, color.NRGBA{9, 9, 9, 255}), image.Rect(0, 0, 800, 480)},
		{"portrait gray", solidGray(300, 500, 9), image.Rect(0, 0, 480, 800)},
		{"upscale", solidGray(100, 60, 9), image.Rect(0, 0, 800, 480)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResizeToTarget(tt.img, 800, 480)
			assert.Equal(t, tt.want, out.Bounds())
			assert.Equal(t, channelCount(tt.img), channelCount(out))
		})
	}
}

func TestResizeToTarget_FlatStaysFlat(t *testing.T) {
	out := ResizeToTarget(solidGray(200, 120, 77), 80, 48).(*image.Gray)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(77), v)
	}
}

func TestResizeExact_KeepsLevels(t *testing.T) {
	out := ResizeExact(checkerboard(10, 10), 40, 40).(*image.Gray)
	for _, v := range out.Pix {
		assert.Contains(t, []uint8{0, 255}, v)
	}
}
