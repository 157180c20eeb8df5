package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images with zero width or height.
var ErrEmptyImage = errors.New("imaging: zero-size image")

// InputError reports an image that cannot enter the pipeline: a missing
// path, an undecodable file or a zero-size image.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("input: %v", e.Err)
	}
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// SupportedExtensions lists the file extensions the loader can decode.
var SupportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsSupported reports whether path has a decodable image extension.
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Validate rejects nil and zero-size images with an *InputError.
func Validate(img image.Image) error {
	if img == nil {
		return &InputError{Err: errors.New("nil image")}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return &InputError{Err: ErrEmptyImage}
	}
	return nil
}

// Load opens and decodes the image at path, applying any EXIF orientation.
// Single-channel files decode to *image.Gray and keep that channel model.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &InputError{Path: path, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	if err := Validate(img); err != nil {
		return nil, &InputError{Path: path, Err: ErrEmptyImage}
	}
	return img, nil
}

// ImageCache holds decoded images by path so repeated tool calls on the
// same file decode it once. Images are never mutated after loading, so a
// cached image may be handed to several goroutines at once.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{images: map[string]image.Image{}}
}

// cacheKey cleans path so "a/../b.png" and "b.png" share an entry.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Load returns the cached image for path, decoding it on first use.
// Errors are *InputError values and are not cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	key := cacheKey(path)

	c.mu.RLock()
	img, ok := c.images[key]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.images[key]; ok {
		return cached, nil
	}
	c.images[key] = img
	return img, nil
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	clear(c.images)
	c.mu.Unlock()
}

// Evict drops the image cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, cacheKey(path))
	c.mu.Unlock()
}

// ImageInfo describes an image file as the pipeline will see it.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the file extension without the dot, lowercased, or "unknown".
	Format string `json:"format"`

	// Channels is 1 for single-channel intensity images and 3 otherwise.
	Channels int `json:"channels"`

	// Orientation is "landscape" when width >= height, else "portrait".
	Orientation string `json:"orientation"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	b := img.Bounds()
	orientation := "landscape"
	if b.Dx() < b.Dy() {
		orientation = "portrait"
	}

	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        formatName(path),
		Channels:      channelCount(img),
		Orientation:   orientation,
		FileSizeBytes: fi.Size(),
	}, nil
}

// formatName maps the extension of path to a format name.
func formatName(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	default:
		if SupportedExtensions[ext] {
			return ext[1:]
		}
		return "unknown"
	}
}
