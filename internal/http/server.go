package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	"github.com/fyrsmithlabs/jsondistill/internal/logging"
	"github.com/fyrsmithlabs/jsondistill/internal/mcp"
	"github.com/fyrsmithlabs/jsondistill/internal/secrets"
	"github.com/fyrsmithlabs/jsondistill/internal/telemetry"
)

// Server serves the distiller over HTTP.
type Server struct {
	echo      *echo.Echo
	svc       *distill.Service
	scrubber  secrets.Scrubber
	tools     *mcp.ToolRegistry
	telemetry *telemetry.Telemetry
	logger    *logging.Logger
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// ShutdownTimeout bounds graceful shutdown in Start.
	ShutdownTimeout time.Duration
	// ReadTimeout bounds reading a whole request.
	ReadTimeout time.Duration

	// RateLimit is the sustained requests per second allowed per client
	// IP on /api/v1. Zero disables rate limiting.
	RateLimit float64
	RateBurst int

	// TrustProxy takes the client IP from X-Forwarded-For when the request
	// comes from a loopback or private-network proxy. Otherwise the
	// connection's remote address is used.
	TrustProxy bool

	// MaxBodyBytes caps request bodies. Zero disables the cap.
	MaxBodyBytes int64

	// AuthToken, when set, is required as a bearer token on /api/v1.
	AuthToken string

	// Defaults fill query parameters the client leaves out.
	Defaults distill.Options

	// Version is reported by /health.
	Version string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:            "127.0.0.1",
		Port:            9480,
		ShutdownTimeout: 10 * time.Second,
		ReadTimeout:     30 * time.Second,
		RateLimit:       50,
		RateBurst:       100,
		MaxBodyBytes:    64 << 20,
		Defaults:        distill.DefaultOptions(),
	}
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithScrubber enables POST /api/v1/scrub.
func WithScrubber(s secrets.Scrubber) Option {
	return func(srv *Server) { srv.scrubber = s }
}

// WithTools publishes a tool registry at GET /api/v1/tools.
func WithTools(r *mcp.ToolRegistry) Option {
	return func(srv *Server) { srv.tools = r }
}

// WithTelemetry records request metrics on t and reports its health.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(srv *Server) { srv.telemetry = t }
}

// NewServer creates a new HTTP server.
func NewServer(svc *distill.Service, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, errors.New("distill service is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default options: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	s := &Server{
		echo:   e,
		svc:    svc,
		logger: logger.Named("http"),
		config: cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	e.HTTPErrorHandler = s.errorHandler

	metrics := NewHTTPMetrics(s.telemetry.Meter(httpInstrumentationName), logger.Underlying())
	e.Use(requestID())
	e.Use(metrics.MetricsMiddleware())
	e.Use(s.requestLogger())
	e.Use(middleware.Recover())

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	if s.config.AuthToken != "" {
		v1.Use(bearerAuth(s.config.AuthToken))
	}
	if s.config.RateLimit > 0 {
		v1.Use(newClientLimiter(s.config.RateLimit, s.config.RateBurst).middleware())
	}
	if s.config.MaxBodyBytes > 0 {
		v1.Use(middleware.BodyLimit(strconv.FormatInt(s.config.MaxBodyBytes, 10) + "B"))
	}

	v1.POST("/distill", s.handleDistill)
	v1.POST("/fingerprint", s.handleFingerprint)
	v1.GET("/tools", s.handleTools)
	if s.scrubber != nil {
		v1.POST("/scrub", s.handleScrub)
	}
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is canceled, then shuts down gracefully within
// ShutdownTimeout. A clean shutdown returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.echo.Server.ReadTimeout = s.config.ReadTimeout
	s.echo.Server.ReadHeaderTimeout = s.config.ReadTimeout

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting http server", zap.String("addr", s.Addr()))
		if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeout := s.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
