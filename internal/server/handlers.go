package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/geink/internal/config"
	"github.com/ironsheep/geink/internal/dither"
	"github.com/ironsheep/geink/internal/imaging"
	"github.com/ironsheep/geink/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "epd_load", "epd_pack").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs the named tool. Bad params are -32602; a tool
// that fails is -32000 with the error text as data.
func (s *Server) handleToolsCall(req *request) *response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return fail(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return fail(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	return reply(req.ID, textResult(result))
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (any, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "epd_load":
		return s.handleLoad(args)
	case "epd_background":
		return s.handleBackground(args)
	case "epd_detect_bounds":
		return s.handleDetectBounds(args)
	case "epd_preprocess":
		return s.handlePreprocess(args)
	case "epd_dither":
		return s.handleDither(args)
	case "epd_pack":
		return s.handlePack(args)
	case "epd_methods":
		return s.handleMethods()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// panelArgs override the server configuration for one call. Zero values
// keep the configured setting.
type panelArgs struct {
	Path           string   `json:"path"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Levels         int      `json:"levels"`
	Method         string   `json:"method"`
	Layout         string   `json:"layout"`
	Threshold      *int     `json:"threshold"`
	SolidTolerance *float64 `json:"solid_tolerance"`
	MaxSide        int      `json:"max_side"`
}

func (a panelArgs) apply(cfg config.Config) config.Config {
	if a.Width > 0 {
		cfg.TargetWidth = a.Width
	}
	if a.Height > 0 {
		cfg.TargetHeight = a.Height
	}
	if a.Levels != 0 {
		cfg.ColorLevels = a.Levels
	}
	if a.Method != "" {
		cfg.DitherMethod = a.Method
	}
	if a.Layout != "" {
		cfg.Layout = a.Layout
	}
	if a.Threshold != nil {
		cfg.Threshold = *a.Threshold
	}
	if a.SolidTolerance != nil {
		cfg.SolidTolerance = *a.SolidTolerance
	}
	return cfg
}

func (s *Server) parsePanelArgs(args json.RawMessage) (panelArgs, config.Config, error) {
	var a panelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, config.Config{}, err
	}
	if a.Path == "" {
		return a, config.Config{}, fmt.Errorf("path is required")
	}
	return a, a.apply(s.cfg), nil
}

func (s *Server) render(args json.RawMessage) (panelArgs, *pipeline.Processor, *pipeline.Rendered, error) {
	a, cfg, err := s.parsePanelArgs(args)
	if err != nil {
		return a, nil, nil, err
	}
	p, err := pipeline.New(cfg, s.logger)
	if err != nil {
		return a, nil, nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return a, nil, nil, err
	}
	r, err := p.Render(img)
	if err != nil {
		return a, nil, nil, err
	}
	return a, p, r, nil
}

// === Inspection Handlers ===

func (s *Server) handleLoad(args json.RawMessage) (any, error) {
	a, _, err := s.parsePanelArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type backgroundResult struct {
	Color          string  `json:"color"`
	Channels       int     `json:"channels"`
	Values         []uint8 `json:"values"`
	BorderVariance float64 `json:"border_variance"`
	Solid          bool    `json:"solid"`
}

func (s *Server) handleBackground(args json.RawMessage) (any, error) {
	a, cfg, err := s.parsePanelArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	bg := imaging.SampleBackground(img)
	variance := imaging.BorderVariance(img)
	return &backgroundResult{
		Color:          bg.Hex(),
		Channels:       bg.Channels,
		Values:         append([]uint8(nil), bg.V[:bg.Channels]...),
		BorderVariance: variance,
		Solid:          variance < cfg.SolidTolerance,
	}, nil
}

type boundsResult struct {
	imaging.BoundingBox
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Image  *imaging.EncodedImage `json:"image,omitempty"`
}

type detectBoundsArgs struct {
	IncludeImage bool `json:"include_image"`
}

func (s *Server) handleDetectBounds(args json.RawMessage) (any, error) {
	a, cfg, err := s.parsePanelArgs(args)
	if err != nil {
		return nil, err
	}
	var extra detectBoundsArgs
	if err := json.Unmarshal(args, &extra); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	box := imaging.DetectBounds(img, cfg.Threshold)
	res := &boundsResult{BoundingBox: box, Width: box.Width(), Height: box.Height()}
	if extra.IncludeImage {
		if res.Image, err = imaging.EncodePNG(imaging.Crop(img, box), a.MaxSide); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// === Pipeline Handlers ===

type preprocessResult struct {
	Bounds     imaging.BoundingBox   `json:"bounds"`
	Background string                `json:"background"`
	Strategy   imaging.Strategy      `json:"strategy"`
	Image      *imaging.EncodedImage `json:"image"`
}

func (s *Server) handlePreprocess(args json.RawMessage) (any, error) {
	a, cfg, err := s.parsePanelArgs(args)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{Threshold: cfg.Threshold, SolidTolerance: cfg.SolidTolerance}
	pre, err := pipeline.Preprocess(img, cfg.TargetWidth, cfg.TargetHeight, opts, s.logger)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(pre.Image, a.MaxSide)
	if err != nil {
		return nil, err
	}
	return &preprocessResult{
		Bounds:     pre.Bounds,
		Background: pre.Background.Hex(),
		Strategy:   pre.Strategy,
		Image:      enc,
	}, nil
}

type ditherResult struct {
	Method string                `json:"method"`
	Levels int                   `json:"levels"`
	Image  *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleDither(args json.RawMessage) (any, error) {
	a, p, r, err := s.render(args)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(r.Dithered, a.MaxSide)
	if err != nil {
		return nil, err
	}
	return &ditherResult{
		Method: p.Method().String(),
		Levels: p.Config().ColorLevels,
		Image:  enc,
	}, nil
}

type packArgs struct {
	Output string `json:"output"`
}

type packResult struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	BitsPerPixel int    `json:"bits_per_pixel"`
	Layout       string `json:"layout"`
	Bytes        int    `json:"bytes"`
	Output       string `json:"output,omitempty"`
	DataBase64   string `json:"data_base64,omitempty"`
}

func (s *Server) handlePack(args json.RawMessage) (any, error) {
	var extra packArgs
	if err := json.Unmarshal(args, &extra); err != nil {
		return nil, err
	}
	_, _, r, err := s.render(args)
	if err != nil {
		return nil, err
	}

	f := r.Frame
	res := &packResult{
		Width:        f.Width,
		Height:       f.Height,
		BitsPerPixel: f.BitsPerPixel,
		Layout:       f.Layout.String(),
		Bytes:        len(f.Pix),
	}
	if extra.Output != "" {
		if err := pipeline.WriteFrame(extra.Output, f.Pix); err != nil {
			return nil, err
		}
		res.Output = extra.Output
	} else {
		res.DataBase64 = base64.StdEncoding.EncodeToString(f.Pix)
	}
	return res, nil
}

type methodInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Taps int    `json:"taps,omitempty"`
}

func (s *Server) handleMethods() (any, error) {
	var out []methodInfo
	for _, m := range dither.Methods() {
		info := methodInfo{Name: m.String(), Kind: "error_diffusion", Taps: len(m.Kernel())}
		if m.Ordered() {
			info.Kind = "ordered"
		}
		out = append(out, info)
	}
	return map[string]interface{}{"methods": out}, nil
}
