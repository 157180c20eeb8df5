package server

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestImageFile writes a white w x h PNG with a black square in the
// middle third and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if x >= width/3 && x < 2*width/3 && y >= height/3 && y < 2*height/3 {
				c = color.NRGBA{0, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) *response {
	t.Helper()
	rawArgs, err := json.Marshal(args)
	require.NoError(t, err)
	params, err := json.Marshal(ToolCallParams{Name: name, Arguments: rawArgs})
	require.NoError(t, err)

	resp := s.handleToolsCall(&request{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp)
	if resp.Error != nil || out == nil {
		return resp
	}

	result, ok := resp.Result.(toolResult)
	require.True(t, ok)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), out))
	return resp
}

func TestHandleToolsCall_Load(t *testing.T) {
	path := createTestImageFile(t, 300, 150)

	var info struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Format      string `json:"format"`
		Channels    int    `json:"channels"`
		Orientation string `json:"orientation"`
	}
	resp := callTool(t, newTestServer(), "epd_load", map[string]interface{}{"path": path}, &info)
	require.Nil(t, resp.Error)
	assert.Equal(t, 300, info.Width)
	assert.Equal(t, 150, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 3, info.Channels)
	assert.Equal(t, "landscape", info.Orientation)
}

func TestHandleToolsCall_Background(t *testing.T) {
	path := createTestImageFile(t, 90, 60)

	var bg backgroundResult
	resp := callTool(t, newTestServer(), "epd_background", map[string]interface{}{"path": path}, &bg)
	require.Nil(t, resp.Error)
	assert.Equal(t, "#ffffff", bg.Color)
	assert.Equal(t, []uint8{255, 255, 255}, bg.Values)
	assert.True(t, bg.Solid)
	assert.Zero(t, bg.BorderVariance)
}

func TestHandleToolsCall_DetectBounds(t *testing.T) {
	path := createTestImageFile(t, 300, 150)

	var res struct {
		Left   int `json:"left"`
		Right  int `json:"right"`
		Top    int `json:"top"`
		Bottom int `json:"bottom"`
		Width  int `json:"width"`
		Image  *struct {
			Width       int    `json:"width"`
			ImageBase64 string `json:"image_base64"`
		} `json:"image"`
	}
	resp := callTool(t, newTestServer(), "epd_detect_bounds",
		map[string]interface{}{"path": path, "include_image": true}, &res)
	require.Nil(t, resp.Error)

	assert.Equal(t, 95, res.Left)
	assert.Equal(t, 205, res.Right)
	assert.Equal(t, 45, res.Top)
	assert.Equal(t, 105, res.Bottom)
	assert.Equal(t, 110, res.Width)
	require.NotNil(t, res.Image)
	assert.Equal(t, 110, res.Image.Width)
	_, err := base64.StdEncoding.DecodeString(res.Image.ImageBase64)
	assert.NoError(t, err)
}

func TestHandleToolsCall_Preprocess(t *testing.T) {
	path := createTestImageFile(t, 300, 150)

	var res struct {
		Strategy string `json:"strategy"`
		Image    struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"image"`
	}
	resp := callTool(t, newTestServer(), "epd_preprocess",
		map[string]interface{}{"path": path, "width": 200, "height": 100}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, "pad", res.Strategy)
	assert.Equal(t, 200, res.Image.Width)
	assert.Equal(t, 100, res.Image.Height)
}

func TestHandleToolsCall_Dither(t *testing.T) {
	path := createTestImageFile(t, 120, 90)

	var res struct {
		Method string `json:"method"`
		Levels int    `json:"levels"`
		Image  struct {
			Width int `json:"width"`
		} `json:"image"`
	}
	resp := callTool(t, newTestServer(), "epd_dither",
		map[string]interface{}{"path": path, "method": "Stucki", "levels": 4, "max_side": 400}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, "stucki", res.Method)
	assert.Equal(t, 4, res.Levels)
	assert.Equal(t, 400, res.Image.Width)
}

func TestHandleToolsCall_Pack(t *testing.T) {
	path := createTestImageFile(t, 120, 90)
	s := newTestServer()

	var res packResult
	resp := callTool(t, s, "epd_pack", map[string]interface{}{"path": path}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 480, res.Height)
	assert.Equal(t, 1, res.BitsPerPixel)
	assert.Equal(t, "row", res.Layout)
	assert.Equal(t, 48000, res.Bytes)
	data, err := base64.StdEncoding.DecodeString(res.DataBase64)
	require.NoError(t, err)
	assert.Len(t, data, 48000)

	out := filepath.Join(t.TempDir(), "frames", "panel.bin")
	res = packResult{}
	resp = callTool(t, s, "epd_pack", map[string]interface{}{
		"path": path, "levels": 16, "layout": "flat", "width": 10, "height": 3, "output": out,
	}, &res)
	require.Nil(t, resp.Error)
	assert.Equal(t, out, res.Output)
	assert.Empty(t, res.DataBase64)
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, written, 15)
}

func TestHandleToolsCall_Methods(t *testing.T) {
	var res struct {
		Methods []methodInfo `json:"methods"`
	}
	resp := callTool(t, newTestServer(), "epd_methods", map[string]interface{}{}, &res)
	require.Nil(t, resp.Error)
	require.NotEmpty(t, res.Methods)
	assert.Equal(t, methodInfo{Name: "floyd_steinberg", Kind: "error_diffusion", Taps: 4}, res.Methods[0])

	kinds := map[string]string{}
	for _, m := range res.Methods {
		kinds[m.Name] = m.Kind
	}
	assert.Equal(t, "ordered", kinds["bayer8x8"])
}

func TestHandleToolsCall_Errors(t *testing.T) {
	path := createTestImageFile(t, 40, 40)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"unknown tool", "image_ocr_full", map[string]interface{}{"path": path}},
		{"missing path", "epd_load", map[string]interface{}{}},
		{"nonexistent file", "epd_load", map[string]interface{}{"path": "/nonexistent/image.png"}},
		{"unsupported method", "epd_dither", map[string]interface{}{"path": path, "method": "atkinson"}},
		{"bad levels", "epd_pack", map[string]interface{}{"path": path, "levels": 3}},
		{"bad layout", "epd_pack", map[string]interface{}{"path": path, "layout": "column"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, newTestServer(), tt.tool, tt.args, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, -32000, resp.Error.Code)
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleToolsCall(&request{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`[1,2]`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)

	_, err := s.executeTool("epd_load", json.RawMessage(`{"path":`))
	assert.Error(t, err)
}
