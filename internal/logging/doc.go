// Package logging provides structured logging with OpenTelemetry integration.
//
// # Overview
//
// The package wraps Zap with:
//   - A custom Trace level (-2, below Debug)
//   - Output to stderr and, optionally, the OpenTelemetry log pipeline
//   - Context field injection (trace_id, span_id, request.id, run.id)
//   - Redaction of payload and credential fields
//   - Sampling below error level
//
// Stdout is reserved for MCP frames and command output, so the logger
// never writes there.
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, tel.LoggerProvider())
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.Info(ctx, "distilled", zap.Int("folded_items", n))
//
// # Configuration Precedence
//
//  1. Defaults (NewDefaultConfig)
//  2. File (the logging section of config.yaml or config.toml)
//  3. Environment variables (JSONDISTILL_LOGGING_*)
//
// # Redaction
//
// Fields named json_string, document or payload never reach the output, nor
// do credential-like fields. String values matching a redaction pattern are
// replaced too. Use RedactedString or Secret for explicit redaction:
//
//	logger.Info(ctx, "auth configured", logging.Secret("auth_token", cfg.Server.AuthToken))
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
package logging
