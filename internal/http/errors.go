package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
	"github.com/fyrsmithlabs/jsondistill/internal/jsontree"
)

// Error codes returned in ErrorBody.Code.
const (
	CodeInvalidJSON     = "invalid_json"
	CodeInvalidArgument = "invalid_argument"
	CodeInvalidInput    = "invalid_input"
	CodeTooLarge        = "payload_too_large"
	CodeUnauthorized    = "unauthorized"
	CodeRateLimited     = "rate_limited"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal"
)

// apiError is an error with a status and code already decided.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func newAPIError(status int, code, format string, args ...any) *apiError {
	return &apiError{Status: status, Code: code, Message: fmt.Sprintf(format, args...)}
}

// classify maps an error onto a status and code.
func classify(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		return &apiError{Status: he.Code, Code: codeForStatus(he.Code), Message: msg}
	}

	switch {
	case errors.Is(err, jsontree.ErrTooLarge):
		return &apiError{Status: http.StatusRequestEntityTooLarge, Code: CodeTooLarge, Message: err.Error()}
	case errors.Is(err, jsontree.ErrTooDeep):
		return &apiError{Status: http.StatusUnprocessableEntity, Code: CodeInvalidInput, Message: err.Error()}
	case distill.IsParseError(err):
		return &apiError{Status: http.StatusBadRequest, Code: CodeInvalidJSON, Message: "Failed to parse JSON: " + unwrapDetail(err)}
	case distill.KindOf(err) == distill.KindInvalidInput:
		return &apiError{Status: http.StatusUnprocessableEntity, Code: CodeInvalidInput, Message: unwrapDetail(err)}
	case distill.KindOf(err) == distill.KindInternal:
		return &apiError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Distillation failed: " + unwrapDetail(err)}
	}
	return &apiError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: http.StatusText(http.StatusInternalServerError)}
}

func unwrapDetail(err error) string {
	var de *distill.Error
	if errors.As(err, &de) && de.Err != nil {
		return de.Err.Error()
	}
	return err.Error()
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusRequestEntityTooLarge:
		return CodeTooLarge
	case http.StatusUnprocessableEntity:
		return CodeInvalidInput
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

// errorHandler renders every error as an ErrorResponse.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	ae := classify(err)
	ctx := c.Request().Context()
	if ae.Status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", zap.String("code", ae.Code), zap.Error(err))
	} else {
		s.logger.Debug(ctx, "request rejected", zap.String("code", ae.Code), zap.Error(err))
	}

	body := ErrorResponse{Error: ErrorBody{Code: ae.Code, Message: ae.Message}}
	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(ae.Status)
	} else {
		writeErr = c.JSON(ae.Status, body)
	}
	if writeErr != nil {
		s.logger.Warn(ctx, "failed to write error response", zap.Error(writeErr))
	}
}
