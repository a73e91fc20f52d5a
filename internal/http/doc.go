// Package http exposes the distiller over a small REST API built on echo.
//
// Routes:
//
//	GET  /health              liveness and telemetry state
//	GET  /metrics             Prometheus scrape endpoint
//	POST /api/v1/distill      distill the request body
//	POST /api/v1/fingerprint  fingerprint the root value of the request body
//	GET  /api/v1/tools        list the MCP tools this build serves
//	POST /api/v1/scrub        redact secrets from a string (when a scrubber is configured)
//
// Routes under /api/v1 share optional bearer auth, a per-client rate limit
// and a body size cap. Errors are returned as
// {"error":{"code":"...","message":"..."}}.
package http
