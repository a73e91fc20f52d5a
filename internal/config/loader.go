package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "JSONDISTILL_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// ErrConfigNotFound is returned when an explicitly named file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// nestedSections lists subsections per section so that environment
// variables can address them, e.g. JSONDISTILL_TELEMETRY_SAMPLING_RATE ->
// telemetry.sampling.rate.
var nestedSections = map[string][]string{
	"logging":   {"output", "sampling", "caller", "stacktrace", "redaction"},
	"telemetry": {"sampling", "metrics", "logs", "shutdown"},
}

// Load reads configuration with precedence (highest to lowest):
//  1. Environment variables (JSONDISTILL_SERVER_PORT -> server.port)
//  2. The config file: configPath, or the first of
//     ~/.config/jsondistill/config.{yaml,yml,toml} and
//     /etc/jsondistill/config.{yaml,yml,toml} that exists
//  3. Built-in defaults
//
// # Security Considerations
//
// Config files must live under ~/.config/jsondistill/, /etc/jsondistill/ or
// the working directory, must be regular files that are not group or world
// writable, and must not exceed 1MB.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	path, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath returns the file to load, or "" when no explicit path
// was given and no default file exists.
func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if err := validateConfigPath(configPath); err != nil {
			return "", fmt.Errorf("config path validation failed: %w", err)
		}
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
			}
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
		return configPath, nil
	}

	for _, dir := range defaultConfigDirs() {
		for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", nil
}

func loadFile(k *koanf.Koanf, path string) error {
	parser, err := parserFor(path)
	if err != nil {
		return err
	}

	// Validate through the open descriptor to avoid a TOCTOU race.
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(content) > maxConfigFileSize {
		return fmt.Errorf("config file too large (max %d bytes)", maxConfigFileSize)
	}

	if err := k.Load(rawbytes.Provider(content), parser); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return TOML(), nil
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// envKey maps JSONDISTILL_SECTION_FIELD_NAME to section.field_name. The
// section is split on the first underscore; known subsections are split
// once more.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	for _, sub := range nestedSections[section] {
		if rest, found := strings.CutPrefix(field, sub+"_"); found {
			return section + "." + sub + "." + rest
		}
	}
	return section + "." + field
}

// EnsureConfigDir creates ~/.config/jsondistill with 0700 permissions.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "jsondistill")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func defaultConfigDirs() []string {
	dirs := make([]string, 0, 2)
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "jsondistill"))
	}
	return append(dirs, "/etc/jsondistill")
}

func allowedConfigDirs() []string {
	dirs := defaultConfigDirs()
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}

// validateConfigPath checks that path resolves inside an allowed directory.
// It runs whether or not the file exists.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	// Follow symlinks so they cannot escape the allowed directories.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolved = absPath
	}

	for _, dir := range allowedConfigDirs() {
		if resolvedDir, err := filepath.EvalSymlinks(dir); err == nil {
			dir = resolvedDir
		}
		if isWithin(dir, resolved) {
			return nil
		}
	}
	return fmt.Errorf("config file must be in ~/.config/jsondistill/, /etc/jsondistill/ or the working directory")
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// validateConfigFileProperties checks file type, permissions and size using
// FileInfo from an already-opened descriptor.
func validateConfigFileProperties(info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config path is not a regular file")
	}
	// Skip on Windows (different permission model)
	if runtime.GOOS != "windows" {
		if perm := info.Mode().Perm(); perm&0o022 != 0 {
			return fmt.Errorf("insecure config file permissions: %v (must not be group or world writable)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}
