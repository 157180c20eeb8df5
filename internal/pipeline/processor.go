package pipeline

import (
	"fmt"
	"image"
	"io"
	"log"

	"github.com/ironsheep/geink/internal/config"
	"github.com/ironsheep/geink/internal/dither"
	"github.com/ironsheep/geink/internal/epd"
	"github.com/ironsheep/geink/internal/imaging"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// Processor converts images into packed frames for one panel
// configuration.
type Processor struct {
	cfg    config.Config
	method dither.Method
	layout epd.Layout
	bpp    int
	logger *log.Logger
}

// New validates cfg and resolves its dither method and layout. A nil
// logger discards output.
func New(cfg config.Config, logger *log.Logger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	method, err := dither.ParseMethod(cfg.DitherMethod)
	if err != nil {
		return nil, err
	}
	layout, err := epd.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Processor{
		cfg:    cfg,
		method: method,
		layout: layout,
		bpp:    cfg.BitsPerPixel(),
		logger: logger,
	}, nil
}

// Config returns the configuration p was built from.
func (p *Processor) Config() config.Config {
	return p.cfg
}

// Method is the dither method resolved from the configured name.
func (p *Processor) Method() dither.Method {
	return p.method
}

// Rendered holds every intermediate of a Render.
type Rendered struct {
	*Preprocessed

	Dithered *image.Gray
	Frame    *epd.Frame
}

// Render runs preprocessing, dithering and packing on img.
func (p *Processor) Render(img image.Image) (*Rendered, error) {
	pre, err := Preprocess(img, p.cfg.TargetWidth, p.cfg.TargetHeight, p.options(), p.logger)
	if err != nil {
		return nil, err
	}

	dithered, err := dither.Dither(imaging.Grayscale(pre.Image), p.method, p.cfg.ColorLevels)
	if err != nil {
		return nil, fmt.Errorf("failed to dither: %w", err)
	}
	p.logger.Printf("Dithered with %s to %d levels", p.method, p.cfg.ColorLevels)

	frame, err := epd.Pack(dithered, p.bpp, p.layout)
	if err != nil {
		return nil, fmt.Errorf("failed to pack: %w", err)
	}
	p.logger.Printf("Packed %d bytes at %d bpp (%s)", len(frame.Pix), p.bpp, p.layout)

	return &Rendered{Preprocessed: pre, Dithered: dithered, Frame: frame}, nil
}

// Pack packs an image that is already dithered. Images whose size does not
// match the panel are resized with nearest-neighbor sampling first.
func (p *Processor) Pack(img image.Image) (*epd.Frame, error) {
	if err := imaging.Validate(img); err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := imaging.TargetSize(b.Dx(), b.Dy(), p.cfg.TargetWidth, p.cfg.TargetHeight)
	if b.Dx() != w || b.Dy() != h {
		p.logger.Printf("Image is %dx%d, expected %dx%d; resizing", b.Dx(), b.Dy(), w, h)
		img = imaging.ResizeExact(img, w, h)
	}

	frame, err := epd.Pack(imaging.Grayscale(img), p.bpp, p.layout)
	if err != nil {
		return nil, fmt.Errorf("failed to pack: %w", err)
	}
	return frame, nil
}

func (p *Processor) options() Options {
	return Options{
		Threshold:      p.cfg.Threshold,
		SolidTolerance: p.cfg.SolidTolerance,
	}
}
