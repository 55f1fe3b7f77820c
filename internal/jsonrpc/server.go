package jsonrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/musheer360/awscalc-mcp/internal/toolsurface"
)

const (
	serverName      = "awscalc-mcp"
	serverVersion   = "0.1.0"
	protocolVersion = "2024-11-05"
)

// Server is the MCP server that bridges stdio JSON-RPC to the pricing tool
// surface.
type Server struct {
	surface *toolsurface.Surface
	tools   []Tool
	logger  *slog.Logger
}

// NewServer creates a Server wrapping surface. Logging goes to stderr
// because stdout is reserved for JSON-RPC responses.
func NewServer(surface *toolsurface.Surface) *Server {
	return &Server{
		surface: surface,
		tools:   AllTools(),
		logger:  slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// Run starts the stdio JSON-RPC loop. It reads requests from stdin,
// dispatches them, and writes responses to stdout. It blocks until stdin
// is closed.
func (s *Server) Run() error {
	reader := bufio.NewReader(os.Stdin)
	writer := os.Stdout

	s.logger.Info("mcp server starting, reading from stdin")

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				s.logger.Info("stdin closed, shutting down")
				return nil
			}
			return fmt.Errorf("reading stdin: %w", err)
		}

		if len(line) == 0 || (len(line) == 1 && line[0] == '\n') {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeError(writer, nil, ErrCodeParseError, "Parse error: "+err.Error())
			continue
		}

		s.logger.Info("received request", "method", req.Method, "id", string(req.ID))

		resp := s.dispatch(&req)
		s.writeResponse(writer, resp)
	}
}

// dispatch routes a JSON-RPC request to the appropriate handler.
func (s *Server) dispatch(req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		// Notifications get no response per the MCP spec.
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &RPCError{
				Code:    ErrCodeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	result := InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    ServerCaps{Tools: &ToolsCap{}},
		ServerInfo:      ServerInfo{Name: serverName, Version: serverVersion},
		Instructions:    "AWS Pricing Calculator tool server. Search services, inspect their configurable schema, price a configuration, and assemble the priced services into a saved, sharable estimate.",
	}
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) handleToolsList(req *Request) *Response {
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: ToolsListResult{Tools: s.tools}}
}

func (s *Server) handleToolsCall(req *Request) *Response {
	var params ToolCallParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return &Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &RPCError{Code: ErrCodeInvalidParams, Message: "Invalid params: " + err.Error()},
			}
		}
	}

	if params.Name == "" {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: ErrCodeInvalidParams, Message: "Missing required parameter: name"},
		}
	}

	s.logger.Info("calling tool", "tool", params.Name)

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed", "tool", params.Name, "error", err)
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: ToolCallResult{
				Content: []TextContent{{Type: "text", Text: fmt.Sprintf("Error: %s", err.Error())}},
				IsError: true,
			},
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: ToolCallResult{
			Content: []TextContent{{Type: "text", Text: string(result)}},
		},
	}
}

// executeTool dispatches to the tool surface based on the tool name,
// marshaling each typed result to JSON for transport as text content.
func (s *Server) executeTool(name string, args map[string]interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("re-marshaling arguments: %w", err)
	}

	switch name {
	case "search_services":
		var a toolsurface.SearchServicesArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return marshalResult(s.surface.SearchServices(a))

	case "get_service_schema":
		var a toolsurface.GetServiceSchemaArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return marshalResult(s.surface.GetServiceSchema(a))

	case "configure_service":
		var a toolsurface.ConfigureServiceArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return marshalResult(s.surface.ConfigureService(a))

	case "create_estimate":
		var a toolsurface.CreateEstimateArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return marshalResult(s.surface.CreateEstimate(a))

	case "load_estimate":
		var a toolsurface.LoadEstimateArgs
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return marshalResult(s.surface.LoadEstimate(a))

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func marshalResult(v interface{}, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (s *Server) writeResponse(w io.Writer, resp *Response) {
	if resp == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w io.Writer, id json.RawMessage, code int, message string) {
	s.writeResponse(w, &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
}
