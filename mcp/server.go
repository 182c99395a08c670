package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/loopwork-ai/shopmcp/jsonrpc"
	"github.com/loopwork-ai/shopmcp/shopify"
)

// Server represents an MCP server that exposes Shopify operations as tools
type Server struct {
	shopify     *shopify.Client
	info        ServerInfo
	tools       []tool
	toolsByName map[string]*tool
	logger      *slog.Logger
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithShopify sets the Shopify client tool calls are executed against
func WithShopify(client *shopify.Client) ServerOption {
	return func(s *Server) {
		s.shopify = client
	}
}

// WithServerInfo sets the name and version reported on initialize
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) {
		s.info = ServerInfo{Name: name, Version: version}
	}
}

// WithLogger sets the logger for diagnostic output
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDisabledTools removes tools the predicate reports as disabled.
// Calls to a disabled tool fail the same way as calls to an unknown one.
func WithDisabledTools(disabled func(name string) bool) ServerOption {
	return func(s *Server) {
		if disabled == nil {
			return
		}
		kept := s.tools[:0]
		for _, t := range s.tools {
			if !disabled(t.Name) {
				kept = append(kept, t)
			}
		}
		s.tools = kept
	}
}

// NewServer creates a new MCP server instance
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		info:   ServerInfo{Name: "shopmcp", Version: "dev"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	tools, err := registerTools()
	if err != nil {
		return nil, fmt.Errorf("error building tool registry: %w", err)
	}
	s.tools = tools

	for _, opt := range opts {
		opt(s)
	}

	if s.shopify == nil {
		return nil, fmt.Errorf("a Shopify client is required")
	}

	s.toolsByName = make(map[string]*tool, len(s.tools))
	for i := range s.tools {
		s.toolsByName[s.tools[i].Name] = &s.tools[i]
	}

	return s, nil
}

var _ jsonrpc.Handler = &Server{}

// Handle processes a single JSON-RPC message. The boolean reports whether a
// response should be emitted; notifications never produce one.
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) (response jsonrpc.Response, emit bool) {
	if request.IsNotification() {
		s.handleNotification(request)
		return jsonrpc.Response{}, false
	}

	// A handler fault must become an internal-error response for this id,
	// never a crashed session.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic", "method", request.Method, "panic", r)
			response = jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInternal, fmt.Sprint(r)))
			emit = true
		}
	}()

	s.logger.Debug("handling request", "method", request.Method, "id", request.Id)

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request), true
	case "ping":
		return jsonrpc.NewResponse(request.Id, PingResponse{}, nil), true
	case "tools/list":
		return s.handleToolsList(request), true
	case "tools/call":
		return s.handleToolsCall(ctx, request), true
	default:
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, request.Method)), true
	}
}

// handleNotification processes a message with no id. Unknown notification
// methods are dropped without protest, per JSON-RPC semantics.
func (s *Server) handleNotification(request jsonrpc.Request) {
	switch request.Method {
	case "notifications/initialized":
		s.logger.Debug("client initialized")
	default:
		s.logger.Debug("ignoring notification", "method", request.Method)
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) jsonrpc.Response {
	result := InitializeResponse{
		ProtocolVersion: Version,
		Capabilities: ServerCapabilities{
			Tools: &ToolCapabilities{ListChanged: false},
		},
		ServerInfo: s.info,
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}

func (s *Server) handleToolsList(request jsonrpc.Request) jsonrpc.Response {
	tools := make([]Tool, len(s.tools))
	for i, t := range s.tools {
		tools[i] = t.Tool
	}
	return jsonrpc.NewResponse(request.Id, ToolsListResponse{Tools: tools}, nil)
}

func (s *Server) handleToolsCall(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	var params ToolCallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
	}
	if params.Name == "" {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "tool name is required"))
	}

	t, ok := s.toolsByName[params.Name]
	if !ok {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, fmt.Sprintf("unknown tool: %s", params.Name)))
	}

	if params.Arguments == nil {
		params.Arguments = map[string]interface{}{}
	}
	if err := t.resolved.Validate(params.Arguments); err != nil {
		data := fmt.Sprintf("invalid arguments for tool %q: %v", params.Name, err)
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, data))
	}

	s.logger.Debug("calling tool", "tool", params.Name)

	text, err := t.call(ctx, s, params.Arguments)
	if err != nil {
		var rpcErr *jsonrpc.Error
		switch e := err.(type) {
		case *jsonrpc.Error:
			rpcErr = e
		default:
			rpcErr = jsonrpc.NewError(jsonrpc.ErrInternal, err.Error())
		}
		return jsonrpc.NewResponse(request.Id, nil, rpcErr)
	}

	result := ToolCallResponse{
		Content: []Content{NewTextContent(text, []Role{RoleAssistant}, nil)},
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}
