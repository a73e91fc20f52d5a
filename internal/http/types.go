package http

import (
	"github.com/fyrsmithlabs/jsondistill/internal/mcp"
	"github.com/fyrsmithlabs/jsondistill/internal/telemetry"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string                  `json:"status"`
	Version   string                  `json:"version,omitempty"`
	Telemetry *telemetry.HealthStatus `json:"telemetry,omitempty"`
}

// FingerprintResponse is the response body for POST /api/v1/fingerprint.
type FingerprintResponse struct {
	Fingerprint string `json:"fingerprint"`
	Shape       string `json:"shape"`
}

// ScrubRequest is the request body for POST /api/v1/scrub.
type ScrubRequest struct {
	Content string `json:"content"`
}

// ScrubResponse is the response body for POST /api/v1/scrub.
type ScrubResponse struct {
	Content       string   `json:"content"`
	FindingsCount int      `json:"findings_count"`
	Rules         []string `json:"rules,omitempty"`
}

// ToolsResponse is the response body for GET /api/v1/tools.
type ToolsResponse struct {
	Tools []*mcp.ToolMetadata `json:"tools"`
	Count int                 `json:"count"`
}

// ErrorResponse wraps every error returned by the API.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a stable machine-readable code and a message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
