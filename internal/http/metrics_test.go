package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestHTTPMetrics_MetricsMiddleware(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	m := NewHTTPMetrics(mp.Meter(httpInstrumentationName), zap.NewNop())

	e := echo.New()
	e.Use(m.MetricsMiddleware())
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/api/v1/distill", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/distill", strings.NewReader(`[1,2]`)))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/unknown/abc", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			found[md.Name] = md
		}
	}

	requests, ok := found["jsondistill.http.requests_total"]
	require.True(t, ok, "requests counter not found")
	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	routes := map[string]bool{}
	for _, dp := range sum.DataPoints {
		total += dp.Value
		if v, ok := dp.Attributes.Value(attribute.Key("route")); ok {
			routes[v.AsString()] = true
		}
	}
	assert.Equal(t, int64(3), total)
	assert.True(t, routes["/health"])
	assert.True(t, routes["/api/v1/distill"])
	assert.False(t, routes["/unknown/abc"], "unmatched paths must not become labels")

	duration, ok := found["jsondistill.http.request_duration_seconds"]
	require.True(t, ok, "duration histogram not found")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	_, ok = found["jsondistill.http.response_size_bytes"]
	assert.True(t, ok, "response size histogram not found")
	_, ok = found["jsondistill.http.request_size_bytes"]
	assert.True(t, ok, "request size histogram not found")
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		status   int
		expected string
	}{
		{"", http.StatusOK, "unmatched"},
		{"/api/v1/*", http.StatusNotFound, "unmatched"},
		{"/health", http.StatusOK, "/health"},
		{"/api/v1/distill", http.StatusBadRequest, "/api/v1/distill"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizePath(tt.input, tt.status))
	}
}
