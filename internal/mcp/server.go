package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	"github.com/fyrsmithlabs/jsondistill/internal/telemetry"
)

// Instructions is sent to clients during initialization.
const Instructions = "Analyze and reverse engineer arbitrary JSON structures for LLMs. This tool dramatically increases information " +
	"density (99%+ compression) by identifying unique structural patterns in large JSON payloads. Perfect for " +
	"understanding API responses, datasets, and complex JSON without overwhelming context windows. Preserves complete " +
	"structural information while removing repetitive content."

// Server exposes a distill.Service as MCP tools.
type Server struct {
	mcp          *mcp.Server
	svc          *distill.Service
	defaults     distill.Options
	toolRegistry *ToolRegistry
	metrics      *Metrics
	logger       *zap.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "jsondistill")
	Name string

	// Version is the server version (default: "dev")
	Version string

	// Logger for structured logging. Must not write to stdout when the
	// stdio transport is used.
	Logger *zap.Logger

	// Telemetry supplies the meter for tool metrics. Nil uses the global
	// provider.
	Telemetry *telemetry.Telemetry

	// Defaults fill tool arguments the client leaves out.
	Defaults distill.Options
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:     "jsondistill",
		Version:  "dev",
		Logger:   zap.NewNop(),
		Defaults: distill.DefaultOptions(),
	}
}

// NewServer creates an MCP server backed by svc.
func NewServer(cfg *Config, svc *distill.Service) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if svc == nil {
		return nil, errors.New("distill service is required")
	}
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default options: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "jsondistill"
	}

	s := &Server{
		svc:          svc,
		defaults:     cfg.Defaults,
		toolRegistry: NewToolRegistry(),
		metrics:      NewMetrics(cfg.Telemetry.Meter(instrumentationName), logger),
		logger:       logger,
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: cfg.Version,
		},
		&mcp.ServerOptions{
			Instructions: Instructions,
			InitializedHandler: func(context.Context, *mcp.InitializedRequest) {
				logger.Info("client initialized MCP server")
			},
		},
	)

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return s, nil
}

// Registry returns the metadata of the registered tools.
func (s *Server) Registry() *ToolRegistry {
	return s.toolRegistry
}

// Run serves on the stdio transport until the client disconnects or ctx
// is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport",
		zap.Int("tools", s.toolRegistry.Count()))
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	s.logger.Info("MCP server shutdown")
	return nil
}

// Connect starts a session on an arbitrary transport.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	session, err := s.mcp.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect failed: %w", err)
	}
	return session, nil
}
