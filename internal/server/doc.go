// Package server implements an MCP (Model Context Protocol) server that
// exposes the e-paper pipeline stages as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Inspection:
//   - epd_load: Image metadata
//   - epd_background: Corner background and border flatness
//   - epd_detect_bounds: Foreground bounding box
//
// Pipeline:
//   - epd_preprocess: Crop, reframe and resize to the panel
//   - epd_dither: Preprocess and dither
//   - epd_pack: Full pipeline to a packed frame
//   - epd_methods: Dither method catalog
//
// Pipeline tools default to the configuration the server was created with;
// every call may override the panel size, levels, method and layout.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data.
package server
