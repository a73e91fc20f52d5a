package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(t *testing.T, mutate func(*Config)) (*Logger, *bytes.Buffer) {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Sampling.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(cfg, nil, &buf)
	require.NoError(t, err)
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, logger.Underlying())
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLogger_WritesJSONWithConstantFields(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)

	logger.Info(context.Background(), "distilled", zap.Int("folded_items", 3))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "distilled", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "jsondistill", lines[0]["service"])
	assert.Equal(t, float64(3), lines[0]["folded_items"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, func(c *Config) { c.Level = "warn" })
	ctx := context.Background()

	logger.Trace(ctx, "trace")
	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["msg"])
	assert.Equal(t, "error", lines[1]["msg"])
}

func TestLogger_TraceLevelName(t *testing.T) {
	logger, buf := newBufferLogger(t, func(c *Config) { c.Level = "trace" })

	logger.Trace(context.Background(), "node visited")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "trace", lines[0]["level"])
}

func TestLogger_RedactsPayloadFields(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)

	logger.Info(context.Background(), "request",
		zap.String("json_string", `{"password":"hunter2"}`),
		zap.String("header", "Bearer abc.def"),
		zap.String("tool", "distill_json_content"),
	)
	logger.With(zap.String("document", "raw")).Info(context.Background(), "child")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "abc.def")
	assert.NotContains(t, out, `"raw"`)
	assert.Contains(t, out, "distill_json_content")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "[REDACTED]", lines[0]["json_string"])
	assert.Equal(t, "[REDACTED:pattern]", lines[0]["header"])
	assert.Equal(t, "[REDACTED]", lines[1]["document"])
}

func TestLogger_ContextFields(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithRequestID(ctx, "req_2")

	logger.Info(ctx, "with context")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, span.SpanContext().TraceID().String(), lines[0]["trace_id"])
	assert.Equal(t, "run-1", lines[0]["run.id"])
	assert.Equal(t, "req_2", lines[0]["request.id"])
}

func TestLogger_WithAndNamed(t *testing.T) {
	logger, buf := newBufferLogger(t, nil)

	child := logger.Named("mcp").With(zap.String("tool", "x"))
	child.Info(context.Background(), "child")
	logger.Info(context.Background(), "parent")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "mcp", lines[0]["logger"])
	assert.Equal(t, "x", lines[0]["tool"])
	assert.NotContains(t, lines[1], "tool")
}

func TestLogger_Enabled(t *testing.T) {
	logger, _ := newBufferLogger(t, func(c *Config) { c.Level = "info" })

	assert.False(t, logger.Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Info(context.Background(), "dropped")
		_ = Nop().Sync()
	})
}
