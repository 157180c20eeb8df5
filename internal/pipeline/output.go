package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/geink/internal/imaging"
)

const (
	// FrameExt is the extension of packed frames.
	FrameExt = ".bin"

	// CompressedExt is appended to FrameExt for zstd copies.
	CompressedExt = ".zst"

	cropSuffix     = "_crop"
	ditheredSuffix = "_dithered"
)

// Stem returns the file name of path without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// isGenerated reports whether path looks like a preview this package wrote.
func isGenerated(path string) bool {
	stem := Stem(path)
	return strings.HasSuffix(stem, cropSuffix) || strings.HasSuffix(stem, ditheredSuffix)
}

// Outputs lists the files written for one image.
type Outputs struct {
	Frame      string `json:"frame"`
	Compressed string `json:"compressed,omitempty"`
	Crop       string `json:"crop,omitempty"`
	Dithered   string `json:"dithered,omitempty"`
}

// WriteFrame writes data to path, creating parent directories.
func WriteFrame(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// SavePNG writes img to path as PNG, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

var zstdEncPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(
			nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// Compress returns data as a zstd frame.
func Compress(data []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	zstdEncPool.Put(enc)
	return out
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	zstdDecPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress frame: %w", err)
	}
	return out, nil
}

// ReadFrame reads a packed frame, decompressing it when path ends in
// CompressedExt.
func ReadFrame(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	if strings.HasSuffix(path, CompressedExt) {
		return Decompress(data)
	}
	return data, nil
}

// writeOutputs stores the frame and, as configured, its compressed copy
// and previews under outDir.
func (p *Processor) writeOutputs(r *Rendered, stem, outDir string) (*Outputs, error) {
	out := &Outputs{Frame: filepath.Join(outDir, stem+FrameExt)}
	if err := WriteFrame(out.Frame, r.Frame.Pix); err != nil {
		return nil, err
	}

	if p.cfg.Compress {
		out.Compressed = out.Frame + CompressedExt
		if err := WriteFrame(out.Compressed, Compress(r.Frame.Pix)); err != nil {
			return nil, err
		}
	}

	if p.cfg.Previews {
		out.Crop = filepath.Join(outDir, stem+cropSuffix+".png")
		if err := SavePNG(out.Crop, r.Cropped); err != nil {
			return nil, err
		}
		out.Dithered = filepath.Join(outDir, stem+ditheredSuffix+".png")
		if err := SavePNG(out.Dithered, r.Dithered); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ProcessFile renders the image at path and writes its outputs to outDir.
func (p *Processor) ProcessFile(path, outDir string) (*Outputs, error) {
	p.logger.Printf("Processing %s", path)

	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	r, err := p.Render(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p.writeOutputs(r, Stem(path), outDir)
}

// ConvertFile packs an already dithered image file into outDir.
func (p *Processor) ConvertFile(path, outDir string) (string, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return "", err
	}
	frame, err := p.Pack(img)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	dst := filepath.Join(outDir, Stem(path)+FrameExt)
	if err := WriteFrame(dst, frame.Pix); err != nil {
		return "", err
	}
	p.logger.Printf("Wrote %s (%d bytes)", dst, len(frame.Pix))
	return dst, nil
}
