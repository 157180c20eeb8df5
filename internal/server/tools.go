package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// panelProperties are the per-call overrides shared by the pipeline tools.
func panelProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Panel width in pixels. Defaults to the server configuration",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Panel height in pixels. Defaults to the server configuration",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Bounds detector sensitivity (0-255). Pixels at least 255-threshold away from the background are foreground",
		},
		"solid_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Border variance below which the image is padded instead of cropped",
		},
		"max_side": map[string]interface{}{
			"type":        "integer",
			"description": "Shrink returned previews so neither side exceeds this. 0 keeps full size",
		},
	}
}

func ditherProperties() map[string]interface{} {
	props := panelProperties()
	props["method"] = map[string]interface{}{
		"type":        "string",
		"description": "Dither method, see epd_methods",
	}
	props["levels"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of gray levels: 2, 4, 16 or 256",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	packProps := ditherProperties()
	packProps["layout"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"row", "flat"},
		"description": "row starts every row on a fresh byte; flat packs rows back to back",
	}
	packProps["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path to write the frame to. When omitted the frame is returned as base64",
	}

	boundsProps := map[string]interface{}{
		"path": pathProperty(),
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Detector sensitivity (0-255). Default 240",
		},
		"include_image": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return the cropped region as base64 PNG",
		},
		"max_side": map[string]interface{}{
			"type":        "integer",
			"description": "Shrink the returned crop so neither side exceeds this",
		},
	}

	return []Tool{
		{
			Name:        "epd_load",
			Description: "Load an image file and return its dimensions, format, channel count and orientation.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"path": pathProperty()},
				"required":   []string{"path"},
			},
		},
		{
			Name:        "epd_background",
			Description: "Sample the background color from the four corners and report whether the border is a single flat color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"solid_tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Border variance below which the background counts as solid. Default 30",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "epd_detect_bounds",
			Description: "Find the bounding box of everything that differs from the background, with a 5 pixel margin.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": boundsProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "epd_preprocess",
			Description: "Crop to the foreground, pad or crop to the panel aspect ratio and resize to the panel. Returns the result as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": panelProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "epd_dither",
			Description: "Preprocess an image and dither it to the panel's gray levels. Returns the dithered image as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": ditherProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "epd_pack",
			Description: "Run the full pipeline and pack the result into the e-paper framebuffer format.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": packProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "epd_methods",
			Description: "List the available dither methods.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
