package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/jsondistill/internal/logging"
)

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"abc-123_XYZ", true},
		{uuid.NewString(), true},
		{"has space", false},
		{"semi;colon", false},
		{string(make([]byte, 129)), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validRequestID(tt.id), "id %q", tt.id)
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(requestID())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = logging.RequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	t.Run("generates uuid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		header := rec.Header().Get(echo.HeaderXRequestID)
		_, err := uuid.Parse(header)
		require.NoError(t, err)
		assert.Equal(t, header, seen)
	})

	t.Run("keeps valid client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRequestID, "client-42")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "client-42", rec.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "client-42", seen)
	})

	t.Run("replaces invalid client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRequestID, "bad id")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestBearerAuth(t *testing.T) {
	srv := setupTestServer(t, func(cfg *Config) { cfg.AuthToken = "s3cret-token" })

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret-token", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer s3cret-token", http.StatusOK},
		{"scheme is case insensitive", "bearer s3cret-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.header != "" {
				headers = []string{echo.HeaderAuthorization, tt.header}
			}
			rec := srv.do(http.MethodPost, "/api/v1/fingerprint", []byte(`1`), headers...)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, CodeUnauthorized, decodeError(t, rec).Code)
			}
		})
	}

	// Health stays open.
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/health", nil).Code)
}

func TestRateLimit(t *testing.T) {
	srv := setupTestServer(t, func(cfg *Config) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 2
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/v1/tools", nil).Code)
	}
	rec := srv.do(http.MethodGet, "/api/v1/tools", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, decodeError(t, rec).Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// A forged forwarding header does not open a new bucket.
	rec = srv.do(http.MethodGet, "/api/v1/tools", nil, echo.HeaderXForwardedFor, "203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other clients have their own bucket.
	rec = srv.doFrom("198.51.100.7:5678", http.MethodGet, "/api/v1/tools", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_TrustProxy(t *testing.T) {
	srv := setupTestServer(t, func(cfg *Config) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 1
		cfg.TrustProxy = true
	})

	// Forwarding headers are honored from a loopback proxy.
	fromProxy := func(client string) int {
		return srv.doFrom("127.0.0.1:40000", http.MethodGet, "/api/v1/tools", nil, echo.HeaderXForwardedFor, client).Code
	}
	assert.Equal(t, http.StatusOK, fromProxy("203.0.113.9"))
	assert.Equal(t, http.StatusTooManyRequests, fromProxy("203.0.113.9"))
	assert.Equal(t, http.StatusOK, fromProxy("203.0.113.10"))
}

func TestClientLimiter_Cleanup(t *testing.T) {
	now := time.Now()
	l := newClientLimiter(1, 1)
	l.now = func() time.Time { return now }

	first := l.get("10.0.0.1")
	assert.Same(t, first, l.get("10.0.0.1"))

	now = now.Add(cleanupInterval + time.Second)
	assert.NotSame(t, first, l.get("10.0.0.1"))
}

func TestNewClientLimiter_MinimumBurst(t *testing.T) {
	l := newClientLimiter(10, 0)
	assert.Equal(t, 1, l.burst)
	assert.True(t, l.get("x").Allow())
}
