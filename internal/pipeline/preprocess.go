package pipeline

import (
	"image"
	"log"

	"github.com/ironsheep/geink/internal/imaging"
)

// Options tune the geometric stages.
type Options struct {
	// Threshold is the bounds detector sensitivity, see imaging.DetectBounds.
	Threshold int

	// SolidTolerance is the border variance below which the image is padded
	// rather than cropped.
	SolidTolerance float64
}

// DefaultOptions returns the detector and reframer defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:      imaging.DefaultThreshold,
		SolidTolerance: imaging.DefaultSolidTolerance,
	}
}

// Preprocessed is the outcome of Preprocess along with what it decided.
type Preprocessed struct {
	// Image is the panel-sized result.
	Image image.Image

	// Cropped is the source trimmed to its foreground bounds.
	Cropped image.Image

	Background imaging.Pixel
	Bounds     imaging.BoundingBox
	Strategy   imaging.Strategy
}

// Preprocess trims img to its foreground, brings it to the panel aspect
// ratio and resamples it to targetW x targetH (swapped for portrait
// images). A nil logger discards output.
func Preprocess(img image.Image, targetW, targetH int, opts Options, logger *log.Logger) (*Preprocessed, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if err := imaging.Validate(img); err != nil {
		return nil, err
	}

	b := img.Bounds()
	logger.Printf("Original size: %dx%d", b.Dx(), b.Dy())

	bg := imaging.SampleBackground(img)
	logger.Printf("Background color: %s", bg.Hex())

	box := imaging.DetectBounds(img, opts.Threshold)
	logger.Printf("Object bounds: %s", box)

	cropped := imaging.Crop(img, box)
	logger.Printf("Cropped size: %dx%d", box.Width(), box.Height())

	framed, strategy := imaging.Reframe(cropped, targetW, targetH, opts.SolidTolerance)
	fb := framed.Bounds()
	logger.Printf("Reframed (%s) size: %dx%d", strategy, fb.Dx(), fb.Dy())

	resized := imaging.ResizeToTarget(framed, targetW, targetH)
	if err := imaging.Validate(resized); err != nil {
		return nil, err
	}
	rb := resized.Bounds()
	logger.Printf("Final size: %dx%d", rb.Dx(), rb.Dy())

	return &Preprocessed{
		Image:      resized,
		Cropped:    cropped,
		Background: bg,
		Bounds:     box,
		Strategy:   strategy,
	}, nil
}
