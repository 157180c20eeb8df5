package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/geink/internal/config"
	"github.com/ironsheep/geink/internal/imaging"
	"github.com/ironsheep/geink/internal/pipeline"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.KeyTargetWidth, config.KeyTargetHeight, config.KeyColorLevels,
		config.KeyDitherMethod, config.KeyLayout, config.KeyThreshold,
		config.KeySolidTolerance, config.KeyWorkers, config.KeyCompress, config.KeyPreviews,
	} {
		t.Setenv(key, "")
	}
}

func writeWhite(t *testing.T, dir string, w, h int) string {
	t.Helper()
	return writeWhiteAs(t, dir, "white.png", w, h)
}

func writeWhiteAs(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	path := filepath.Join(dir, name)
	require.NoError(t, pipeline.SavePNG(path, img))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	exiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() { cli.OsExiter = exiter })

	base := []string{"geink", "--env-file", filepath.Join(t.TempDir(), "missing.env")}
	return newApp().Run(append(base, args...))
}

func TestConvertAndDecode(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	src := writeWhite(t, dir, 8, 4)
	outDir := filepath.Join(dir, "out")

	require.NoError(t, run(t, "convert", "--width", "8", "--height", "4", "-o", outDir, src))

	frame := filepath.Join(outDir, "white.bin")
	data, err := os.ReadFile(frame)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, data)

	png := filepath.Join(dir, "decoded.png")
	require.NoError(t, run(t, "decode", "--width", "8", "--height", "4", "-o", png, frame))

	img, err := imaging.Load(png)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	assert.Equal(t, color.GrayModel.Convert(color.White), color.GrayModel.Convert(img.At(3, 2)))
}

func TestDecode_Portrait(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	src := writeWhiteAs(t, dir, "tall.png", 4, 8)
	outDir := filepath.Join(dir, "out")

	require.NoError(t, run(t, "convert", "--width", "8", "--height", "4", "-o", outDir, src))

	frame := filepath.Join(outDir, "tall.bin")
	data, err := os.ReadFile(frame)
	require.NoError(t, err)
	assert.Len(t, data, 8)

	png := filepath.Join(dir, "tall_decoded.png")
	assert.Error(t, run(t, "decode", "--width", "8", "--height", "4", "-o", png, frame))
	require.NoError(t, run(t, "decode", "--width", "8", "--height", "4", "--portrait", "-o", png, frame))

	img, err := imaging.Load(png)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 8), img.Bounds())
}

func TestConvert_BadLevelsFallBack(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	src := writeWhite(t, dir, 8, 4)
	outDir := filepath.Join(dir, "out")

	require.NoError(t, run(t, "convert", "--width", "8", "--height", "4", "--levels", "3", "-o", outDir, src))

	data, err := os.ReadFile(filepath.Join(outDir, "white.bin"))
	require.NoError(t, err)
	assert.Len(t, data, 4)
}

func TestGrid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	src := writeWhite(t, dir, 10, 6)
	outDir := filepath.Join(dir, "tiles")

	require.NoError(t, run(t, "grid", "--rows", "2", "--cols", "3", "-o", outDir, src))

	for _, name := range []string{"r0_c0", "r0_c2", "r1_c1", "r1_c2"} {
		assert.FileExists(t, filepath.Join(outDir, "white", name+".png"))
	}
}

func TestInvalidMethod(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	src := writeWhite(t, dir, 8, 4)

	err := run(t, "convert", "--method", "nope", "-o", dir, src)
	assert.Error(t, err)
}
