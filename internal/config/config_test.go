package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 800, cfg.TargetWidth)
	assert.Equal(t, 480, cfg.TargetHeight)
	assert.Equal(t, 2, cfg.ColorLevels)
	assert.Equal(t, "floyd_steinberg", cfg.DitherMethod)
	assert.Equal(t, "row", cfg.Layout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvFile(t *testing.T) {
	path := writeEnvFile(t, "GEINK_TARGET_WIDTH=400\nGEINK_TARGET_HEIGHT=300\nGEINK_COLOR_LEVELS=4\nGEINK_DITHER_METHOD=Stucki\nGEINK_PACK_LAYOUT=flat\nGEINK_COMPRESS=true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.TargetWidth)
	assert.Equal(t, 300, cfg.TargetHeight)
	assert.Equal(t, 4, cfg.ColorLevels)
	assert.Equal(t, "stucki", cfg.DitherMethod)
	assert.Equal(t, "flat", cfg.Layout)
	assert.True(t, cfg.Compress)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeEnvFile(t, "GEINK_TARGET_WIDTH=400\n")
	t.Setenv(KeyTargetWidth, "640")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.TargetWidth)
}

func TestLoad_BadValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		key  string
	}{
		{"width", "GEINK_TARGET_WIDTH=wide\n", KeyTargetWidth},
		{"levels", "GEINK_COLOR_LEVELS=two\n", KeyColorLevels},
		{"tolerance", "GEINK_SOLID_TOLERANCE=low\n", KeySolidTolerance},
		{"compress", "GEINK_COMPRESS=maybe\n", KeyCompress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeEnvFile(t, tt.env))
			require.Error(t, err)

			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.key, ce.Key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero width", func(c *Config) { c.TargetWidth = 0 }, KeyTargetWidth},
		{"negative height", func(c *Config) { c.TargetHeight = -1 }, KeyTargetHeight},
		{"one level", func(c *Config) { c.ColorLevels = 1 }, KeyColorLevels},
		{"non power of two", func(c *Config) { c.ColorLevels = 12 }, KeyColorLevels},
		{"three bits", func(c *Config) { c.ColorLevels = 8 }, KeyColorLevels},
		{"sixteen levels", func(c *Config) { c.ColorLevels = 16 }, ""},
		{"bad layout", func(c *Config) { c.Layout = "tiled" }, KeyLayout},
		{"no workers", func(c *Config) { c.Workers = 0 }, KeyWorkers},
		{"empty method", func(c *Config) { c.DitherMethod = "" }, KeyDitherMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantKey, ce.Key)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestBitsPerPixel(t *testing.T) {
	for levels, want := range map[int]int{2: 1, 4: 2, 16: 4, 256: 8} {
		cfg := Default()
		cfg.ColorLevels = levels
		assert.Equal(t, want, cfg.BitsPerPixel(), "levels=%d", levels)
	}
}

func TestValidateBitsPerPixel(t *testing.T) {
	for _, bpp := range []int{1, 2, 4, 8} {
		assert.NoError(t, ValidateBitsPerPixel(bpp))
	}
	for _, bpp := range []int{0, 3, 5, 16} {
		assert.Error(t, ValidateBitsPerPixel(bpp))
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Key: KeyColorLevels, Value: "12", Reason: "must be a power of two >= 2"}
	assert.Equal(t, "config: GEINK_COLOR_LEVELS=12: must be a power of two >= 2", err.Error())

	err = &Error{Key: KeyDitherMethod, Reason: "must not be empty"}
	assert.Equal(t, "config: GEINK_DITHER_METHOD: must not be empty", err.Error())
}
