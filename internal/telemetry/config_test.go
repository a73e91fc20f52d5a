package telemetry

import (
	"testing"
	"time"

	"github.com/fyrsmithlabs/jsondistill/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Protocol)
	assert.Equal(t, "jsondistill", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Logs.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout.Duration())
}

func TestConfig_Validate(t *testing.T) {
	enabled := func(mut func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mut(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{name: "default_config", config: NewDefaultConfig()},
		{name: "disabled_skips_validation", config: &Config{Enabled: false}},
		{name: "enabled_default", config: enabled(func(*Config) {})},
		{
			name:    "missing_endpoint",
			config:  enabled(func(c *Config) { c.Endpoint = "" }),
			wantErr: "endpoint is required",
		},
		{
			name:    "missing_service_name",
			config:  enabled(func(c *Config) { c.ServiceName = "" }),
			wantErr: "service_name is required",
		},
		{
			name:    "unknown_protocol",
			config:  enabled(func(c *Config) { c.Protocol = "thrift" }),
			wantErr: "protocol must be",
		},
		{
			name: "insecure_remote_endpoint",
			config: enabled(func(c *Config) {
				c.Endpoint = "collector.example.com:4317"
			}),
			wantErr: "loopback",
		},
		{
			name: "insecure_loopback_ip",
			config: enabled(func(c *Config) {
				c.Endpoint = "127.0.0.1:4317"
			}),
		},
		{
			name: "insecure_ipv6_loopback_with_scheme",
			config: enabled(func(c *Config) {
				c.Protocol = ProtocolHTTP
				c.Endpoint = "http://[::1]:4318"
			}),
		},
		{
			name: "secure_remote_endpoint",
			config: enabled(func(c *Config) {
				c.Endpoint = "collector.example.com:4317"
				c.Insecure = false
			}),
		},
		{
			name:    "sampling_rate_too_high",
			config:  enabled(func(c *Config) { c.Sampling.Rate = 1.5 }),
			wantErr: "sampling.rate",
		},
		{
			name:    "sampling_rate_negative",
			config:  enabled(func(c *Config) { c.Sampling.Rate = -0.1 }),
			wantErr: "sampling.rate",
		},
		{
			name:    "zero_export_interval",
			config:  enabled(func(c *Config) { c.Metrics.ExportInterval = 0 }),
			wantErr: "export_interval",
		},
		{
			name: "zero_export_interval_with_metrics_off",
			config: enabled(func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.ExportInterval = 0
			}),
		},
		{
			name:    "zero_shutdown_timeout",
			config:  enabled(func(c *Config) { c.Shutdown.Timeout = config.Duration(0) }),
			wantErr: "shutdown.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_JoinsErrors(t *testing.T) {
	cfg := &Config{Enabled: true, Sampling: SamplingConfig{Rate: 2}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint is required")
	assert.Contains(t, err.Error(), "service_name is required")
	assert.Contains(t, err.Error(), "sampling.rate")
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "localhost:4318", stripScheme("http://localhost:4318"))
	assert.Equal(t, "otel.example.com:443", stripScheme("https://otel.example.com:443"))
	assert.Equal(t, "localhost:4317", stripScheme("localhost:4317"))
}
