// Package jsonrpc implements the stdio JSON-RPC 2.0 / MCP transport that
// exposes the pricing tool surface to an agent.
package jsonrpc

import "encoding/json"

// JSON-RPC 2.0 types

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

// MCP-specific types

// InitializeParams are sent by the client during initialization.
type InitializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    ClientCaps `json:"capabilities"`
	ClientInfo      ClientInfo `json:"clientInfo"`
}

// ClientCaps represents client capabilities.
type ClientCaps struct{}

// ClientInfo identifies the MCP client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is returned by the server in response to initialize.
type InitializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    ServerCaps `json:"capabilities"`
	ServerInfo      ServerInfo `json:"serverInfo"`
	Instructions    string     `json:"instructions,omitempty"`
}

// ServerCaps declares server capabilities.
type ServerCaps struct {
	Tools *ToolsCap `json:"tools,omitempty"`
}

// ToolsCap indicates that the server supports tools.
type ToolsCap struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerInfo identifies the MCP server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is a JSON Schema object describing tool parameters.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single parameter in a JSON Schema.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolsListResult is the response for tools/list.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// ToolCallParams are sent by the client to invoke a tool.
type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// ToolCallResult is returned after tool execution.
type ToolCallResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// TextContent represents a text content block in a tool result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AllTools returns the fixed set of tool definitions this server exposes.
func AllTools() []Tool {
	return []Tool{
		{
			Name:        "search_services",
			Description: "Search the AWS service catalog by name, service code, or keyword.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query": {Type: "string", Description: "Free-text search query."},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "get_service_schema",
			Description: "Get the configurable input schema for an AWS service.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"serviceCode": {Type: "string", Description: "The service's code, e.g. \"AmazonS3\"."},
				},
				Required: []string{"serviceCode"},
			},
		},
		{
			Name:        "configure_service",
			Description: "Price a single AWS service given its configuration answers.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"serviceCode": {Type: "string", Description: "The service's code."},
					"templateId":  {Type: "string", Description: "Optional template id; defaults to the service's first template."},
					"region":      {Type: "string", Description: "Optional AWS region code; defaults to \"us-east-1\"."},
					"inputs":      {Type: "object", Description: "Map of input id to answer value."},
				},
				Required: []string{"serviceCode", "inputs"},
			},
		},
		{
			Name:        "create_estimate",
			Description: "Assemble priced services into a saved, sharable estimate.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"name":     {Type: "string", Description: "Display name for the estimate."},
					"services": {Type: "array", Description: "Priced service entries, each shaped like configure_service's result plus an optional \"group\" label."},
				},
				Required: []string{"name", "services"},
			},
		},
		{
			Name:        "load_estimate",
			Description: "Load a previously saved estimate by id or shared link.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"idOrLink": {Type: "string", Description: "The estimate's id or full shared link."},
				},
				Required: []string{"idOrLink"},
			},
		},
	}
}
