package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir and returns the jsondistill
// config directory inside it.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "jsondistill")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, Default().Distill, cfg.Distill)
}

func TestLoad_YAML(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, `
distill:
  strict_typing: false
  position_dependent: true
  max_depth: 64
server:
  port: 8080
  shutdown_timeout: 3s
  auth_token: s3cret
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Distill.StrictTyping)
	assert.True(t, cfg.Distill.PositionDependent)
	assert.Equal(t, 64, cfg.Distill.MaxDepth)
	assert.Equal(t, 2, cfg.Distill.RepeatThreshold, "unset keys keep defaults")
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "s3cret", cfg.Server.AuthToken.Value())

	var logging struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	}
	logging.Format = "json"
	require.NoError(t, cfg.Section("logging", &logging))
	assert.Equal(t, "debug", logging.Level)
	assert.Equal(t, "json", logging.Format)
}

func TestLoad_DefaultPathDiscovered(t *testing.T) {
	dir := setupTestHome(t)
	writeConfig(t, filepath.Join(dir, "config.yaml"), "server:\n  port: 7000\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_TOML(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, `
[distill]
repeat_threshold = 5
scrub_secrets = true

[server]
port = 9999
read_timeout = "45s"

[watch]
debounce = "1s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Distill.RepeatThreshold)
	assert.True(t, cfg.Distill.ScrubSecrets)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, time.Second, cfg.Watch.Debounce.Duration())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := setupTestHome(t)
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "server:\n  port: 8080\n")

	t.Setenv("JSONDISTILL_SERVER_PORT", "8181")
	t.Setenv("JSONDISTILL_DISTILL_POSITION_DEPENDENT", "true")
	t.Setenv("JSONDISTILL_TELEMETRY_SAMPLING_RATE", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.True(t, cfg.Distill.PositionDependent)

	var telemetry struct {
		Sampling struct {
			Rate float64 `koanf:"rate"`
		} `koanf:"sampling"`
	}
	require.NoError(t, cfg.Section("telemetry", &telemetry))
	assert.Equal(t, 0.5, telemetry.Sampling.Rate)
}

func TestLoad_Errors(t *testing.T) {
	dir := setupTestHome(t)

	t.Run("missing_explicit_file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"))
		require.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("outside_allowed_dirs", func(t *testing.T) {
		_, err := Load("/var/tmp/jsondistill.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config path validation failed")
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := filepath.Join(dir, "config.ini")
		writeConfig(t, path, "port=1")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file extension")
	})

	t.Run("invalid_values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		writeConfig(t, path, "distill:\n  repeat_threshold: -3\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "repeat_threshold")
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		writeConfig(t, path, "server: [unclosed\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("group_writable", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission model differs on windows")
		}
		path := filepath.Join(dir, "writable.yaml")
		writeConfig(t, path, "server:\n  port: 8080\n")
		require.NoError(t, os.Chmod(path, 0620))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insecure config file permissions")
	})

	t.Run("too_large", func(t *testing.T) {
		path := filepath.Join(dir, "large.yaml")
		big := make([]byte, maxConfigFileSize+1)
		for i := range big {
			big[i] = '#'
		}
		require.NoError(t, os.WriteFile(path, big, 0600))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})
}

func TestLoad_WorkingDirectoryAllowed(t *testing.T) {
	setupTestHome(t)
	wd := t.TempDir()
	t.Chdir(wd)

	writeConfig(t, filepath.Join(wd, "jsondistill.yaml"), "mcp:\n  name: local\n")

	cfg, err := Load("jsondistill.yaml")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.MCP.Name)
}

func TestValidateConfigPath_RejectsTraversal(t *testing.T) {
	dir := setupTestHome(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "dot_dot_escape", path: filepath.Join(dir, "..", "..", "..", "etc", "passwd")},
		{name: "sibling_prefix", path: "/etc/jsondistill-evil/config.yaml"},
		{name: "etc_passwd", path: "/etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateConfigPath(tt.path))
		})
	}
}

func TestValidateConfigPath_AllowsValidPaths(t *testing.T) {
	dir := setupTestHome(t)

	for _, p := range []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "sub", "config.toml"),
		"/etc/jsondistill/config.yaml",
	} {
		assert.NoError(t, validateConfigPath(p), p)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"JSONDISTILL_SERVER_PORT":               "server.port",
		"JSONDISTILL_DISTILL_STRICT_TYPING":     "distill.strict_typing",
		"JSONDISTILL_LOGGING_OUTPUT_STDERR":     "logging.output.stderr",
		"JSONDISTILL_LOGGING_LEVEL":             "logging.level",
		"JSONDISTILL_TELEMETRY_SERVICE_NAME":    "telemetry.service_name",
		"JSONDISTILL_TELEMETRY_METRICS_ENABLED": "telemetry.metrics.enabled",
		"JSONDISTILL_SECRETS_GITLEAKS":          "secrets.gitleaks",
		"JSONDISTILL_DEBUG":                     "debug",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(filepath.Join(home, ".config", "jsondistill"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
