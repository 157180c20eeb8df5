package server

import "encoding/json"

const (
	jsonrpcVersion  = "2.0"
	protocolVersion = "2024-11-05"
)

// JSON-RPC error codes used by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// request is one JSON-RPC message read from the client. Notifications
// carry no ID.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
}

// content is one item of a tools/call result. Tool output is always a
// single text item holding indented JSON.
type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []content `json:"content"`
}

type toolList struct {
	Tools []Tool `json:"tools"`
}

func reply(id, result any) *response {
	return &response{JSONRPC: jsonrpcVersion, ID: id, Result: result}
}

func fail(id any, code int, message, data string) *response {
	return &response{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error:   &rpcError{Code: code, Message: message, Data: data},
	}
}

// textResult wraps v as the JSON text of a tool result.
func textResult(v any) toolResult {
	b, _ := json.MarshalIndent(v, "", "  ")
	return toolResult{Content: []content{{Type: "text", Text: string(b)}}}
}
