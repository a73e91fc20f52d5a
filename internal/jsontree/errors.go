package jsontree

import "errors"

var (
	// ErrInvalidJSON indicates the input is not a single well-formed JSON value.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrTooLarge indicates the input exceeds Limits.MaxBytes.
	ErrTooLarge = errors.New("JSON input too large")

	// ErrTooDeep indicates the input nests deeper than Limits.MaxDepth.
	ErrTooDeep = errors.New("JSON input nested too deeply")
)
