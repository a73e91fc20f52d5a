// Package config loads jsondistill configuration from an optional YAML or
// TOML file and JSONDISTILL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/knadh/koanf/v2"
)

// Config holds the sections owned by this package. Sections owned by other
// packages (logging, telemetry, secrets) are decoded with Section so that
// those packages can depend on config types without an import cycle.
type Config struct {
	Distill DistillConfig `koanf:"distill"`
	Server  ServerConfig  `koanf:"server"`
	MCP     MCPConfig     `koanf:"mcp"`
	Watch   WatchConfig   `koanf:"watch"`

	k *koanf.Koanf
}

// DistillConfig holds distillation defaults. Request parameters override
// the first three.
type DistillConfig struct {
	StrictTyping      bool  `koanf:"strict_typing"`
	RepeatThreshold   int   `koanf:"repeat_threshold"`
	PositionDependent bool  `koanf:"position_dependent"`
	MaxInputBytes     int64 `koanf:"max_input_bytes"`
	MaxDepth          int   `koanf:"max_depth"`
	// ScrubSecrets redacts secrets from string values before distilling.
	ScrubSecrets bool `koanf:"scrub_secrets"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	ReadTimeout     Duration `koanf:"read_timeout"`
	// RateLimit is requests per second per client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For. Enable it
	// only behind a proxy that sets the header.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
	// AuthToken, when set, is required as a bearer token on /api routes.
	AuthToken Secret `koanf:"auth_token"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MCPConfig holds MCP server identity.
type MCPConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

// WatchConfig holds file watcher configuration.
type WatchConfig struct {
	Debounce Duration `koanf:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Distill: DistillConfig{
			StrictTyping:    true,
			RepeatThreshold: 2,
			MaxInputBytes:   64 << 20,
			MaxDepth:        512,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            9480,
			ShutdownTimeout: Duration(10 * time.Second),
			ReadTimeout:     Duration(30 * time.Second),
			RateLimit:       50,
			RateBurst:       100,
		},
		MCP: MCPConfig{
			Name:    "jsondistill",
			Version: "dev",
		},
		Watch: WatchConfig{
			Debounce: Duration(250 * time.Millisecond),
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Distill.RepeatThreshold < 0 {
		errs = append(errs, fmt.Errorf("distill.repeat_threshold must be >= 0, got %d", c.Distill.RepeatThreshold))
	}
	if c.Distill.MaxInputBytes <= 0 {
		errs = append(errs, fmt.Errorf("distill.max_input_bytes must be positive, got %d", c.Distill.MaxInputBytes))
	}
	if c.Distill.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("distill.max_depth must be positive, got %d", c.Distill.MaxDepth))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Server.ReadTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be >= 0, got %g", c.Server.RateLimit))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, errors.New("server.rate_burst must be >= 1 when rate limiting is enabled"))
	}

	if c.MCP.Name == "" {
		errs = append(errs, errors.New("mcp.name is required"))
	}

	return errors.Join(errs...)
}

// Section decodes the subtree at path into out, which should already hold
// that section's defaults. Keys absent from the sources keep their
// defaults. On a Config not produced by Load, Section leaves out unchanged.
func (c *Config) Section(path string, out any) error {
	if c.k == nil || !c.k.Exists(path) {
		return nil
	}
	if err := c.k.Unmarshal(path, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", path, err)
	}
	return nil
}
