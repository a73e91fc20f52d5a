package distill

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every *Error matches exactly one of these through
// errors.Is.
var (
	// ErrInvalidInput indicates malformed JSON or a value the canonicalizer
	// cannot describe.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates a violated invariant inside a run, such as a
	// representative missing from the example memo.
	ErrInternal = errors.New("internal error")
)

// ErrorKind classifies distillation failures.
type ErrorKind int

const (
	// KindInvalidInput is returned for bad documents.
	KindInvalidInput ErrorKind = iota + 1
	// KindInternal is returned for logic errors.
	KindInternal
)

// String returns the kind name used in logs and error codes.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is returned by every distillation operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel corresponding to the error kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrInternal:
		return e.Kind == KindInternal
	}
	return false
}

// KindOf returns the ErrorKind of err, or 0 if err is not a distillation
// error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func invalidInput(op string, format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: fmt.Errorf(format, args...)}
}

func internal(op string, format string, args ...any) error {
	return &Error{Kind: KindInternal, Op: op, Err: fmt.Errorf(format, args...)}
}
