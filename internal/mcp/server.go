// Package mcp provides the Model Context Protocol server for sqlmux.
//
// It exposes the dispatcher to MCP clients (editors, agents): a client sends
// a document, a cursor offset, and a unit kind, and sqlmux resolves the
// boundaries, routes to a session, and executes. An MCP client has no
// synchronous prompt, so explicit session selection happens through the
// session_bind tool instead of a chooser.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/logger"
	"github.com/aki/sqlmux/internal/session"
)

// Config assembles the server's collaborators
type Config struct {
	Dispatcher *dispatch.Dispatcher
	Router     *session.Router
	Registry   *session.Registry
	Bindings   *session.BindingStore // optional; bindings persist across restarts when set
	Logger     logger.Logger
}

// Server implements the MCP server over the sqlmux dispatcher
type Server struct {
	mcpServer  *server.MCPServer
	dispatcher *dispatch.Dispatcher
	router     *session.Router
	registry   *session.Registry
	bindings   *session.BindingStore
	log        logger.Logger
}

// NewServer creates an MCP server and registers all tools
func NewServer(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil || cfg.Router == nil || cfg.Registry == nil {
		return nil, fmt.Errorf("dispatcher, router, and registry are required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			"sqlmux",
			"1.0.0",
			server.WithLogging(),
		),
		dispatcher: cfg.Dispatcher,
		router:     cfg.Router,
		registry:   cfg.Registry,
		bindings:   cfg.Bindings,
		log:        log,
	}

	s.registerTools()
	return s, nil
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	s.log.Info("starting MCP server", "transport", "stdio")
	return server.ServeStdio(s.mcpServer)
}
