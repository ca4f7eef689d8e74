// Package mcp exposes the orders API as MCP tools so AI agents can work
// with orders on behalf of a user. The server is configured with a bearer
// token and every tool call is validated and authorized exactly like an
// HTTP request; there is no policy bypass.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/orderhub/orderhub/internal/auth"
	"github.com/orderhub/orderhub/internal/order"
	"github.com/orderhub/orderhub/internal/store"
)

// MCPServer wraps the mcp-go server with orderhub tool and resource
// registrations.
type MCPServer struct {
	controller *order.Controller
	store      *store.Store
	validator  *auth.Validator
	token      string
	baseURL    string
	version    string
	logger     *slog.Logger
	server     *server.MCPServer
}

// Config carries the MCP server dependencies and the bearer token it acts
// with.
type Config struct {
	Store     *store.Store
	Validator *auth.Validator
	Token     string
	BaseURL   string
	Version   string
	Logger    *slog.Logger
}

// NewMCPServer creates an MCPServer pre-loaded with all orderhub tools and
// resources. The returned server is ready to serve over stdio.
func NewMCPServer(cfg Config) *MCPServer {
	s := &MCPServer{
		controller: order.NewController(cfg.Store),
		store:      cfg.Store,
		validator:  cfg.Validator,
		token:      cfg.Token,
		baseURL:    cfg.BaseURL,
		version:    cfg.Version,
		logger:     cfg.Logger,
	}

	mcpServer := server.NewMCPServer(
		"OrderHub",
		cfg.Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance. Useful for
// advanced configuration or testing.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the MCP server in stdio mode, the integration path for
// MCP clients that launch the server as a subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// identity resolves the configured bearer token into a caller identity.
// Validation runs on every call so a revoked or expired credential stops
// working immediately.
func (s *MCPServer) identity() (auth.Identity, error) {
	if s.token == "" {
		return auth.Anonymous(), nil
	}
	return s.validator.Validate(s.token)
}

func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func mutatingAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(false),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
