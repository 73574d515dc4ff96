// Package mcp serves the registry tools over the Model Context Protocol,
// using the stateless streamable HTTP transport: each POST carries one
// JSON-RPC message and gets at most one JSON response.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/api/response"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/version"
)

// maxRequestBytes bounds a single JSON-RPC message.
const maxRequestBytes = 1 << 20

const instructions = "Tools for the UK Companies House public register. " +
	"Use search_companies to find a company number, then the get_* tools or generate_company_report."

// Server is the MCP endpoint. It holds no session state.
type Server struct {
	tools *Toolset
	log   zerolog.Logger
}

// NewServer creates a new Server exposing tools.
func NewServer(tools *Toolset, log zerolog.Logger) *Server {
	return &Server{
		tools: tools,
		log:   log.With().Str("component", "mcp").Logger(),
	}
}

// ServeHTTP handles one JSON-RPC message per POST. GET is refused because
// this server never opens a server-to-client stream.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.RespondError(w, http.StatusMethodNotAllowed, "method not allowed", "stateless server: use POST")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.respondRPCError(w, nil, CodeParseError, "failed to read request body")
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		s.respondRPCError(w, nil, CodeInvalidRequest, "batch requests are not supported")
		return
	}

	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		s.respondRPCError(w, nil, CodeParseError, "parse error")
		return
	}

	if req.JSONRPC != JSONRPCVersion {
		s.respondRPCError(w, req.ID, CodeInvalidRequest, `jsonrpc must be "2.0"`)
		return
	}

	// Client responses and notifications need no reply.
	if req.Method == "" && (len(req.Result) > 0 || len(req.Error) > 0) {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if req.Method == "" {
		s.respondRPCError(w, req.ID, CodeInvalidRequest, "method is required")
		return
	}
	if req.IsNotification() {
		s.log.Debug().Str("method", req.Method).Msg("Notification received")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	result, rpcErr := s.Handle(r.Context(), req.Method, req.Params)
	if rpcErr != nil {
		s.respondRPCError(w, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}

	response.RespondJSON(w, http.StatusOK, Response{
		JSONRPC: JSONRPCVersion,
		ID:      req.ID,
		Result:  result,
	})
}

// Handle dispatches one JSON-RPC method. It is the transport-free core of the
// server, also used by the CLI.
func (s *Server) Handle(ctx context.Context, method string, params json.RawMessage) (any, *Error) {
	switch method {
	case "initialize":
		return s.initialize(params)
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return map[string]any{"tools": s.tools.List()}, nil
	case "tools/call":
		return s.callTool(ctx, params)
	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: "method not found: " + method}
	}
}

func (s *Server) initialize(params json.RawMessage) (any, *Error) {
	var p initializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "invalid initialize params"}
		}
	}

	return InitializeResult{
		ProtocolVersion: NegotiateProtocolVersion(p.ProtocolVersion),
		Capabilities: map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		ServerInfo: ServerInfo{
			Name:    version.ServerName,
			Version: version.Version,
		},
		Instructions: instructions,
	}, nil
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (any, *Error) {
	var p callToolParams
	if len(params) == 0 {
		return nil, &Error{Code: CodeInvalidParams, Message: "tools/call requires params"}
	}
	if err := json.Unmarshal(params, &p); err != nil || p.Name == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "tools/call requires a tool name"}
	}

	result, err := s.tools.Call(ctx, p.Name, p.Arguments)
	if err != nil {
		if IsArgumentError(err) {
			return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
		}
		return ErrorResult(companieshouse.AsAPIError(err)), nil
	}

	return SuccessResult(result), nil
}

// NegotiateProtocolVersion echoes requested when it is supported and
// otherwise answers LatestProtocolVersion.
func NegotiateProtocolVersion(requested string) string {
	if slices.Contains(SupportedProtocolVersions, requested) {
		return requested
	}
	return LatestProtocolVersion
}

// SuccessResult wraps a tool's JSON result. Objects are also attached as
// structured content.
func SuccessResult(result json.RawMessage) CallToolResult {
	out := CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(result)}},
	}
	if trimmed := bytes.TrimSpace(result); len(trimmed) > 0 && trimmed[0] == '{' {
		out.StructuredContent = result
	}
	return out
}

// ErrorResult reports a registry failure as a tool result carrying the
// tagged error object.
func ErrorResult(apiErr *companieshouse.APIError) CallToolResult {
	data, err := json.Marshal(apiErr)
	if err != nil {
		data = []byte(`{"error":"EXCEPTION","message":"failed to encode error"}`)
	}
	return CallToolResult{
		Content:           []ContentBlock{{Type: "text", Text: string(data)}},
		StructuredContent: data,
		IsError:           true,
	}
}

func (s *Server) respondRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	response.RespondJSON(w, http.StatusOK, Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	})
}
