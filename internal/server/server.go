package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/geink/internal/config"
	"github.com/ironsheep/geink/internal/imaging"
)

// Version is reported in the initialize handshake.
var Version = "dev"

// maxLine bounds a single request; tool arguments are small, so 1 MiB is
// plenty.
const maxLine = 1 << 20

// Server answers MCP requests with the pipeline tools. Images named in
// tool calls are decoded once and kept in a cache for the server's life.
type Server struct {
	cache  *imaging.ImageCache
	cfg    config.Config
	logger *log.Logger
}

// New creates a server whose tools default to cfg. A nil logger discards
// pipeline output; protocol problems always go to the standard logger.
func New(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		cache:  imaging.NewImageCache(),
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves stdin to stdout until stdin closes.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC message per line of r and writes each response
// as a line of w. Lines that do not parse are logged and skipped.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), maxLine)
	enc := json.NewEncoder(w)

	for lines.Scan() {
		if len(lines.Bytes()) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(lines.Bytes(), &req); err != nil {
			log.Printf("Skipping malformed request: %v", err)
			continue
		}

		resp := s.dispatch(&req)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			log.Printf("Failed to write response to %s: %v", req.Method, err)
		}
	}

	if err := lines.Err(); err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	return nil
}

// dispatch answers req, or returns nil for notifications.
func (s *Server) dispatch(req *request) *response {
	switch req.Method {
	case "initialize":
		return reply(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      serverInfo{Name: "geink", Version: Version},
		})
	case "notifications/initialized":
		return nil
	case "tools/list":
		return reply(req.ID, toolList{Tools: GetToolDefinitions()})
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return reply(req.ID, struct{}{})
	default:
		return fail(req.ID, codeMethodNotFound, "Method not found: "+req.Method, "")
	}
}
