package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

func newTestMetrics() (*Metrics, *metric.ManualReader) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	return NewMetrics(mp.Meter(instrumentationName), zap.NewNop()), reader
}

func sumOf(t *testing.T, reader *metric.ManualReader, name string) (int64, bool) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestMetrics_RecordInvocation(t *testing.T) {
	m, reader := newTestMetrics()
	ctx := context.Background()

	m.RecordInvocation(ctx, "test_tool", 100*time.Millisecond, nil)
	m.RecordInvocation(ctx, "test_tool", 50*time.Millisecond, errors.New("boom"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	assert.True(t, names["jsondistill.mcp.tool.duration_seconds"])

	invocations, ok := sumOf(t, reader, "jsondistill.mcp.tool.invocations_total")
	require.True(t, ok)
	assert.Equal(t, int64(2), invocations)

	errs, ok := sumOf(t, reader, "jsondistill.mcp.tool.errors_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), errs)
}

func TestMetrics_ActiveRequests(t *testing.T) {
	m, reader := newTestMetrics()
	ctx := context.Background()

	m.IncrementActive(ctx, "test_tool")
	m.IncrementActive(ctx, "test_tool")
	m.DecrementActive(ctx, "test_tool")

	active, ok := sumOf(t, reader, "jsondistill.mcp.tool.active_requests")
	require.True(t, ok)
	assert.Equal(t, int64(1), active)
}

func TestNewMetrics_NilLogger(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	m := NewMetrics(mp.Meter(instrumentationName), nil)
	assert.NotPanics(t, func() {
		m.RecordInvocation(context.Background(), "x", time.Millisecond, nil)
	})
}

func TestCategorizeError(t *testing.T) {
	parseErr := &distill.Error{Kind: distill.KindInvalidInput, Op: "parse", Err: jsontree.ErrInvalidJSON}
	tooLarge := &distill.Error{Kind: distill.KindInvalidInput, Op: "parse", Err: fmt.Errorf("%w: 10 bytes", jsontree.ErrTooLarge)}

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"parse error", parseErr, "parse_error"},
		{"too large", tooLarge, "limit_exceeded"},
		{"too deep", fmt.Errorf("wrapped: %w", jsontree.ErrTooDeep), "limit_exceeded"},
		{"bad options", &distill.Error{Kind: distill.KindInvalidInput, Op: "options", Err: errors.New("negative")}, "validation_error"},
		{"invalid params", &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: "bad"}, "validation_error"},
		{"canceled", context.Canceled, "timeout"},
		{"deadline", fmt.Errorf("run: %w", context.DeadlineExceeded), "timeout"},
		{"internal", &distill.Error{Kind: distill.KindInternal, Op: "example", Err: errors.New("memo miss")}, "internal_error"},
		{"generic error", errors.New("something went wrong"), "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, categorizeError(tt.err))
		})
	}
}
