package http

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	"github.com/fyrsmithlabs/jsondistill/internal/logging"
	"github.com/fyrsmithlabs/jsondistill/internal/mcp"
)

// Response headers set by POST /api/v1/distill.
const (
	HeaderRunID           = "X-Distill-Run-Id"
	HeaderUniqueShapes    = "X-Distill-Unique-Shapes"
	HeaderSecretsRedacted = "X-Distill-Secrets-Redacted"
)

// handleHealth reports liveness and telemetry state.
func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Version: s.config.Version}
	if s.telemetry != nil {
		h := s.telemetry.Health()
		resp.Telemetry = &h
		if h.Degraded {
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// handleDistill distills the request body. Options come from the
// strict_typing, repeat_threshold and position_dependent query parameters.
func (s *Server) handleDistill(c echo.Context) error {
	opts, err := s.optionsFromQuery(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	result, err := s.svc.DistillBytes(ctx, body, opts)
	if err != nil {
		return err
	}

	s.logger.Debug(logging.WithRunID(ctx, result.RunID), "distilled request body",
		zap.Int("input_bytes", len(body)),
		zap.Int("output_bytes", len(result.Output)),
	)

	h := c.Response().Header()
	h.Set(HeaderRunID, result.RunID)
	h.Set(HeaderUniqueShapes, strconv.Itoa(result.Stats.UniqueShapes))
	h.Set(HeaderSecretsRedacted, strconv.Itoa(result.Secrets.TotalFindings))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, result.Output)
}

// handleFingerprint returns the root shape fingerprint of the request body.
func (s *Server) handleFingerprint(c echo.Context) error {
	strict := s.config.Defaults.StrictTyping
	if raw := c.QueryParam("strict_typing"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return newAPIError(http.StatusBadRequest, CodeInvalidArgument, "strict_typing must be a boolean, got %q", raw)
		}
		strict = v
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}

	fp, shape, err := s.svc.Fingerprint(c.Request().Context(), body, strict)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FingerprintResponse{Fingerprint: fp, Shape: shape})
}

// handleTools lists the MCP tools this build serves.
func (s *Server) handleTools(c echo.Context) error {
	tools := []*mcp.ToolMetadata{}
	if s.tools != nil {
		if category := c.QueryParam("category"); category != "" {
			tools = s.tools.ListByCategory(mcp.ToolCategory(category))
		} else {
			tools = s.tools.List()
		}
	}
	return c.JSON(http.StatusOK, ToolsResponse{Tools: tools, Count: len(tools)})
}

// handleScrub redacts secrets from a single string.
func (s *Server) handleScrub(c echo.Context) error {
	var req ScrubRequest
	if err := c.Bind(&req); err != nil {
		return newAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
	}
	if req.Content == "" {
		return newAPIError(http.StatusBadRequest, CodeInvalidArgument, "content field is required")
	}

	scrubbed, rules := s.scrubber.ScrubString(req.Content)
	s.logger.Debug(c.Request().Context(), "scrubbed content", zap.Int("findings", len(rules)))

	return c.JSON(http.StatusOK, ScrubResponse{
		Content:       scrubbed,
		FindingsCount: len(rules),
		Rules:         uniqueSorted(rules),
	})
}

func (s *Server) optionsFromQuery(c echo.Context) (distill.Options, error) {
	opts := s.config.Defaults

	for name, dst := range map[string]*bool{
		"strict_typing":      &opts.StrictTyping,
		"position_dependent": &opts.PositionDependent,
	} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, newAPIError(http.StatusBadRequest, CodeInvalidArgument, "%s must be a boolean, got %q", name, raw)
		}
		*dst = v
	}

	if raw := c.QueryParam("repeat_threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, newAPIError(http.StatusBadRequest, CodeInvalidArgument, "repeat_threshold must be an integer, got %q", raw)
		}
		opts.RepeatThreshold = v
	}
	return opts, nil
}

func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit reports overruns as an *echo.HTTPError.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, err
		}
		return nil, newAPIError(http.StatusBadRequest, CodeInvalidArgument, "failed to read request body")
	}
	return body, nil
}

func uniqueSorted(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
