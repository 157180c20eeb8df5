// Package config loads and validates the panel and pipeline settings.
//
// Values are resolved in priority order: process environment, then a
// dotenv file, then built-in defaults. Validation happens once, in
// Validate, and reports problems as *Error values; nothing here silently
// substitutes a default for a bad value.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys understood by Load.
const (
	KeyTargetWidth    = "GEINK_TARGET_WIDTH"
	KeyTargetHeight   = "GEINK_TARGET_HEIGHT"
	KeyColorLevels    = "GEINK_COLOR_LEVELS"
	KeyDitherMethod   = "GEINK_DITHER_METHOD"
	KeyThreshold      = "GEINK_THRESHOLD"
	KeySolidTolerance = "GEINK_SOLID_TOLERANCE"
	KeyLayout         = "GEINK_PACK_LAYOUT"
	KeyWorkers        = "GEINK_WORKERS"
	KeyCompress       = "GEINK_COMPRESS"
	KeyPreviews       = "GEINK_PREVIEWS"
)

// Defaults match a 7.5" 800x480 black/white panel.
const (
	DefaultTargetWidth    = 800
	DefaultTargetHeight   = 480
	DefaultColorLevels    = 2
	DefaultDitherMethod   = "floyd_steinberg"
	DefaultThreshold      = 240
	DefaultSolidTolerance = 30.0
	DefaultLayout         = "row"
	DefaultWorkers        = 4
)

// Error reports a configuration value that was rejected.
type Error struct {
	Key    string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config: %s=%s: %s", e.Key, e.Value, e.Reason)
}

// IsConfigError reports whether err is, or wraps, a *Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Config is the explicit settings struct handed to the pipeline.
type Config struct {
	TargetWidth    int
	TargetHeight   int
	ColorLevels    int
	DitherMethod   string
	Threshold      int
	SolidTolerance float64
	Layout         string
	Workers        int
	Compress       bool
	Previews       bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TargetWidth:    DefaultTargetWidth,
		TargetHeight:   DefaultTargetHeight,
		ColorLevels:    DefaultColorLevels,
		DitherMethod:   DefaultDitherMethod,
		Threshold:      DefaultThreshold,
		SolidTolerance: DefaultSolidTolerance,
		Layout:         DefaultLayout,
		Workers:        DefaultWorkers,
	}
}

// Load resolves a Config from the environment and the dotenv file at
// envFile. A missing envFile is not an error; an unreadable one is.
// Load parses values but does not call Validate.
func Load(envFile string) (Config, error) {
	file := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok && v != ""
	}

	cfg := Default()
	var err error
	if cfg.TargetWidth, err = intValue(lookup, KeyTargetWidth, cfg.TargetWidth); err != nil {
		return Config{}, err
	}
	if cfg.TargetHeight, err = intValue(lookup, KeyTargetHeight, cfg.TargetHeight); err != nil {
		return Config{}, err
	}
	if cfg.ColorLevels, err = intValue(lookup, KeyColorLevels, cfg.ColorLevels); err != nil {
		return Config{}, err
	}
	if cfg.Threshold, err = intValue(lookup, KeyThreshold, cfg.Threshold); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = intValue(lookup, KeyWorkers, cfg.Workers); err != nil {
		return Config{}, err
	}
	if v, ok := lookup(KeySolidTolerance); ok {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return Config{}, &Error{Key: KeySolidTolerance, Value: v, Reason: "not a number"}
		}
		cfg.SolidTolerance = f
	}
	if cfg.Compress, err = boolValue(lookup, KeyCompress, cfg.Compress); err != nil {
		return Config{}, err
	}
	if cfg.Previews, err = boolValue(lookup, KeyPreviews, cfg.Previews); err != nil {
		return Config{}, err
	}
	if v, ok := lookup(KeyDitherMethod); ok {
		cfg.DitherMethod = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(KeyLayout); ok {
		cfg.Layout = strings.ToLower(strings.TrimSpace(v))
	}

	return cfg, nil
}

func intValue(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &Error{Key: key, Value: v, Reason: "not an integer"}
	}
	return n, nil
}

func boolValue(lookup func(string) (string, bool), key string, def bool) (bool, error) {
	v, ok := lookup(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, &Error{Key: key, Value: v, Reason: "not a boolean"}
	}
	return b, nil
}

// Validate checks every field and returns the first problem found.
// Dither method names are checked by the caller that resolves them, since
// the method table lives in the dither package.
func (c Config) Validate() error {
	if c.TargetWidth <= 0 {
		return &Error{Key: KeyTargetWidth, Value: strconv.Itoa(c.TargetWidth), Reason: "must be positive"}
	}
	if c.TargetHeight <= 0 {
		return &Error{Key: KeyTargetHeight, Value: strconv.Itoa(c.TargetHeight), Reason: "must be positive"}
	}
	if err := ValidateColorLevels(c.ColorLevels); err != nil {
		return err
	}
	if c.Layout != "row" && c.Layout != "flat" {
		return &Error{Key: KeyLayout, Value: c.Layout, Reason: `must be "row" or "flat"`}
	}
	if c.Workers < 1 {
		return &Error{Key: KeyWorkers, Value: strconv.Itoa(c.Workers), Reason: "must be at least 1"}
	}
	if c.SolidTolerance < 0 {
		return &Error{Key: KeySolidTolerance, Value: strconv.FormatFloat(c.SolidTolerance, 'f', -1, 64), Reason: "must not be negative"}
	}
	if c.DitherMethod == "" {
		return &Error{Key: KeyDitherMethod, Reason: "must not be empty"}
	}
	return nil
}

// BitsPerPixel is log2(ColorLevels). Only meaningful after Validate.
func (c Config) BitsPerPixel() int {
	bpp := 0
	for n := c.ColorLevels; n > 1; n >>= 1 {
		bpp++
	}
	return bpp
}

// ValidateColorLevels accepts 2, 4, 16 and 256: powers of two whose
// log2 is a packable bits-per-pixel value.
func ValidateColorLevels(levels int) error {
	if levels < 2 || levels&(levels-1) != 0 {
		return &Error{Key: KeyColorLevels, Value: strconv.Itoa(levels), Reason: "must be a power of two >= 2"}
	}
	bpp := 0
	for n := levels; n > 1; n >>= 1 {
		bpp++
	}
	if err := ValidateBitsPerPixel(bpp); err != nil {
		return &Error{Key: KeyColorLevels, Value: strconv.Itoa(levels), Reason: "must be one of 2, 4, 16 or 256"}
	}
	return nil
}

// ValidateBitsPerPixel accepts 1, 2, 4 and 8.
func ValidateBitsPerPixel(bpp int) error {
	switch bpp {
	case 1, 2, 4, 8:
		return nil
	}
	return &Error{Key: "bits_per_pixel", Value: strconv.Itoa(bpp), Reason: "must be 1, 2, 4 or 8"}
}
