package logging

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fyrsmithlabs/jsondistill/internal/config"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	// Level is trace, debug, info, warn or error.
	Level      string            `koanf:"level"`
	Format     string            `koanf:"format"`
	Output     OutputConfig      `koanf:"output"`
	Sampling   SamplingConfig    `koanf:"sampling"`
	Caller     CallerConfig      `koanf:"caller"`
	Stacktrace StacktraceConfig  `koanf:"stacktrace"`
	Fields     map[string]string `koanf:"fields"`
	Redaction  RedactionConfig   `koanf:"redaction"`
}

// OutputConfig controls where logs are written. Stdout is never used:
// it carries MCP frames and distilled output.
type OutputConfig struct {
	Stderr bool `koanf:"stderr"`
	OTEL   bool `koanf:"otel"`
}

// SamplingConfig controls log volume reduction below error level.
type SamplingConfig struct {
	Enabled    bool            `koanf:"enabled"`
	Tick       config.Duration `koanf:"tick"`
	Initial    int             `koanf:"initial"`
	Thereafter int             `koanf:"thereafter"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled"`
	Skip    int  `koanf:"skip"`
}

// StacktraceConfig controls stacktrace inclusion.
type StacktraceConfig struct {
	Level string `koanf:"level"`
}

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Fields   []string `koanf:"fields"`
	Patterns []string `koanf:"patterns"`
}

// NewDefaultConfig returns config with production defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: OutputConfig{
			Stderr: true,
			OTEL:   false,
		},
		Sampling: SamplingConfig{
			Enabled:    true,
			Tick:       config.Duration(time.Second),
			Initial:    100,
			Thereafter: 10,
		},
		Caller: CallerConfig{
			Enabled: true,
			Skip:    1,
		},
		Stacktrace: StacktraceConfig{
			Level: "error",
		},
		Fields: map[string]string{
			"service": "jsondistill",
		},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				// Request payloads
				"json_string", "document", "payload",
				"password", "secret", "token", "api_key",
				"authorization", "bearer", "credential", "private_key",
			},
			Patterns: []string{
				`(?i)bearer\s+\S+`,
				`(?i)api[_-]?key[=:]\s*\S+`,
			},
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := LevelFromString(c.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid level %q: %w", c.Level, err))
	}
	if c.Stacktrace.Level != "" {
		if _, err := LevelFromString(c.Stacktrace.Level); err != nil {
			errs = append(errs, fmt.Errorf("invalid stacktrace level %q: %w", c.Stacktrace.Level, err))
		}
	}
	if c.Format != "json" && c.Format != "console" {
		errs = append(errs, fmt.Errorf("format must be 'json' or 'console', got %q", c.Format))
	}
	if !c.Output.Stderr && !c.Output.OTEL {
		errs = append(errs, errors.New("at least one output must be enabled (stderr or otel)"))
	}
	if c.Sampling.Enabled && c.Sampling.Tick.Duration() <= 0 {
		errs = append(errs, errors.New("sampling tick must be > 0 when sampling enabled"))
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		errs = append(errs, fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip))
	}
	if c.Redaction.Enabled {
		for _, pattern := range c.Redaction.Patterns {
			if len(pattern) > maxPatternLen {
				errs = append(errs, fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, pattern))
				continue
			}
			if _, err := regexp.Compile(pattern); err != nil {
				errs = append(errs, fmt.Errorf("invalid redaction pattern %q: %w", pattern, err))
			}
		}
	}
	for k, v := range c.Fields {
		if k == "" {
			errs = append(errs, errors.New("field key cannot be empty"))
		} else if v == "" {
			errs = append(errs, fmt.Errorf("field %q has empty value", k))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) level() zapcore.Level {
	l, _ := LevelFromString(c.Level)
	return l
}
