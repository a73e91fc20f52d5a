package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/jsondistill/internal/config"
	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	httpserver "github.com/fyrsmithlabs/jsondistill/internal/http"
	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
	"github.com/fyrsmithlabs/jsondistill/internal/logging"
	"github.com/fyrsmithlabs/jsondistill/internal/mcp"
	"github.com/fyrsmithlabs/jsondistill/internal/secrets"
	"github.com/fyrsmithlabs/jsondistill/internal/telemetry"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg      *config.Config
	tel      *telemetry.Telemetry
	logger   *logging.Logger
	scrubber secrets.Scrubber
	svc      *distill.Service
}

// newApp loads configuration and initializes telemetry, logging, the
// secret scrubber and the distill service, in that order. Logs go to
// stderr; quiet raises the log level to warn.
func newApp(ctx context.Context, configPath string, stderr io.Writer, quiet bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	telCfg := telemetry.NewDefaultConfig()
	if err := cfg.Section("telemetry", telCfg); err != nil {
		return nil, err
	}
	if telCfg.ServiceVersion == "dev" {
		telCfg.ServiceVersion = version
	}
	tel, err := telemetry.New(ctx, telCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &app{cfg: cfg, tel: tel}
	if err := a.init(stderr, quiet); err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *app) init(stderr io.Writer, quiet bool) error {
	logCfg := logging.NewDefaultConfig()
	if err := a.cfg.Section("logging", logCfg); err != nil {
		return err
	}
	if quiet {
		if lvl, err := logging.LevelFromString(logCfg.Level); err == nil && lvl < zapcore.WarnLevel {
			logCfg.Level = "warn"
		}
	}
	logger, err := logging.NewLoggerWithWriter(logCfg, a.tel.LoggerProvider(), stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	secCfg := secrets.DefaultConfig()
	if err := a.cfg.Section("secrets", secCfg); err != nil {
		return err
	}
	scrubber, err := secrets.New(secCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize secret scrubber: %w", err)
	}
	a.scrubber = scrubber

	svcCfg := distill.ServiceConfig{
		Limits: jsontree.Limits{
			MaxBytes: a.cfg.Distill.MaxInputBytes,
			MaxDepth: a.cfg.Distill.MaxDepth,
		},
		Logger:    logger.Named("distill").Underlying(),
		Telemetry: a.tel,
	}
	if a.cfg.Distill.ScrubSecrets {
		svcCfg.Scrubber = scrubber
	}
	svc, err := distill.NewService(svcCfg)
	if err != nil {
		return fmt.Errorf("failed to create distill service: %w", err)
	}
	a.svc = svc
	return nil
}

// Close flushes logs and telemetry.
func (a *app) Close() {
	_ = a.logger.Sync() // Best-effort sync on shutdown
	if err := a.tel.Shutdown(context.Background()); err != nil {
		a.logger.Warn(context.Background(), "telemetry shutdown failed", zap.Error(err))
	}
}

// defaults returns the configured distill options.
func (a *app) defaults() distill.Options {
	return distill.Options{
		StrictTyping:      a.cfg.Distill.StrictTyping,
		RepeatThreshold:   a.cfg.Distill.RepeatThreshold,
		PositionDependent: a.cfg.Distill.PositionDependent,
	}
}

func (a *app) serverVersion() string {
	if a.cfg.MCP.Version == "" || a.cfg.MCP.Version == "dev" {
		return version
	}
	return a.cfg.MCP.Version
}

func (a *app) newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Config{
		Name:      a.cfg.MCP.Name,
		Version:   a.serverVersion(),
		Logger:    a.logger.Named("mcp").Underlying(),
		Telemetry: a.tel,
		Defaults:  a.defaults(),
	}, a.svc)
}

func (a *app) newHTTPServer() (*httpserver.Server, error) {
	tools, err := a.newMCPServer()
	if err != nil {
		return nil, err
	}

	srv := a.cfg.Server
	return httpserver.NewServer(a.svc, a.logger, &httpserver.Config{
		Host:            srv.Host,
		Port:            srv.Port,
		ShutdownTimeout: srv.ShutdownTimeout.Duration(),
		ReadTimeout:     srv.ReadTimeout.Duration(),
		RateLimit:       srv.RateLimit,
		RateBurst:       srv.RateBurst,
		TrustProxy:      srv.TrustProxyHeaders,
		MaxBodyBytes:    a.cfg.Distill.MaxInputBytes,
		AuthToken:       srv.AuthToken.Value(),
		Defaults:        a.defaults(),
		Version:         a.serverVersion(),
	},
		httpserver.WithTools(tools.Registry()),
		httpserver.WithScrubber(a.scrubber),
		httpserver.WithTelemetry(a.tel),
	)
}
