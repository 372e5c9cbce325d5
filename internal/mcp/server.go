// Package mcp exposes the phenotypic age toolkit as a stdio MCP server.
// All tool handlers are typed: parameters and results are plain structs and
// the SDK derives the JSON schemas from their tags.
package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/config"
	"github.com/phenoage-mcp-server/internal/service"
)

const (
	serverName    = "phenoage-mcp-server"
	serverVersion = "1.0.0"
)

// Server wires the toolkit, the tool result cache and the MCP SDK server
// together. Logs go to stderr; stdout belongs to the MCP transport.
type Server struct {
	config    *config.LiteConfig
	toolkit   *service.Toolkit
	cache     *ToolResultCache
	mcpServer *mcp.Server
	logger    *logrus.Logger
}

// ServerOption configures optional server dependencies.
type ServerOption func(*Server) error

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithToolkit replaces the default toolkit.
func WithToolkit(toolkit *service.Toolkit) ServerOption {
	return func(s *Server) error {
		if toolkit == nil {
			return fmt.Errorf("toolkit cannot be nil")
		}
		s.toolkit = toolkit
		return nil
	}
}

// NewServer creates the MCP server from the lite configuration and registers
// all tools.
func NewServer(cfg *config.LiteConfig, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultLiteConfig()
	}

	server := &Server{
		config: cfg,
		logger: newLogger(cfg),
	}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.toolkit == nil {
		server.toolkit = service.NewDefaultToolkit(server.logger)
	}
	server.cache = NewToolResultCache(cfg.CacheMaxItems, cfg.CacheTTL, server.logger)

	serverInfo := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}
	server.mcpServer = mcp.NewServer(serverInfo, nil)
	server.registerTools()

	return server, nil
}

// newLogger builds the logger described by the lite configuration. Logrus
// already defaults to stderr, which keeps stdout clean for the transport.
func newLogger(cfg *config.LiteConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// Start runs the server over stdio until the context is cancelled or the
// client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"server":  serverName,
		"version": serverVersion,
	}).Info("Starting PhenoAge MCP server")

	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Close releases server resources.
func (s *Server) Close() error {
	stats := s.cache.Stats()
	s.logger.WithFields(logrus.Fields{
		"cache_hits":   stats.Hits,
		"cache_misses": stats.Misses,
	}).Info("Shutting down PhenoAge MCP server")
	s.cache.Purge()
	return nil
}

// CacheStats exposes the tool result cache counters, mainly for tests and
// shutdown logging.
func (s *Server) CacheStats() ToolCacheStats {
	return s.cache.Stats()
}

// requestLogger tags all log lines of one tool invocation with the tool name
// and a fresh request id.
func (s *Server) requestLogger(tool string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"tool":       tool,
		"request_id": uuid.New().String(),
	})
}

// textResult wraps a summary line as a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult renders a failed call as a tool-level error, reserving protocol
// errors for transport problems.
func (s *Server) errorResult(message string, err error) *mcp.CallToolResult {
	text := fmt.Sprintf("Error: %s", message)
	if err != nil {
		text += fmt.Sprintf(" - %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}
