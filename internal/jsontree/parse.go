package jsontree

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
)

// Limits bounds the input accepted by Parse. Zero fields are unlimited.
type Limits struct {
	// MaxBytes is the maximum input size in bytes.
	MaxBytes int64
	// MaxDepth is the maximum container nesting depth. The root container
	// is depth 1.
	MaxDepth int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes: 64 << 20,
		MaxDepth: 512,
	}
}

// Parse decodes data into a Value, preserving object field order and number
// literals. Duplicate object keys keep the position of the first occurrence
// and the value of the last one.
func Parse(data []byte, limits Limits) (Value, error) {
	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return Value{}, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, len(data), limits.MaxBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, fmt.Errorf("%w: empty input", ErrInvalidJSON)
	}
	if limits.MaxDepth > 0 {
		if depth, _, _ := scanBrackets(data); depth > limits.MaxDepth {
			return Value{}, fmt.Errorf("%w: depth %d exceeds limit of %d", ErrTooDeep, depth, limits.MaxDepth)
		}
	}
	if !gjson.ValidBytes(data) {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidJSON, describeSyntaxError(data))
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseString is Parse for string input.
func ParseString(s string, limits Limits) (Value, error) {
	return Parse([]byte(s), limits)
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		items := make([]Value, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromResult(value))
			return true
		})
		return Array(items...)
	}

	fields := make([]Field, 0)
	index := make(map[string]int)
	r.ForEach(func(key, value gjson.Result) bool {
		v := fromResult(value)
		if i, ok := index[key.Str]; ok {
			fields[i].Value = v
			return true
		}
		index[key.Str] = len(fields)
		fields = append(fields, Field{Name: key.Str, Value: v})
		return true
	})
	return Object(fields...)
}

// scanBrackets returns the maximum bracket depth of data and the depth still
// open at the end, ignoring brackets inside strings. It runs before
// validation so that pathological nesting is rejected without recursing.
func scanBrackets(data []byte) (maxDepth, open int, inString bool) {
	escaped := false
	for _, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			open++
			if open > maxDepth {
				maxDepth = open
			}
		case ']', '}':
			open--
		}
	}
	return maxDepth, open, inString
}

// describeSyntaxError gives a rough reason for a validation failure.
func describeSyntaxError(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	switch trimmed[0] {
	case '{', '[', '"', 't', 'f', 'n', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return fmt.Sprintf("unexpected character %q at start of input", trimmed[0])
	}
	if _, open, inString := scanBrackets(trimmed); open > 0 || inString {
		return "unexpected end of input"
	}
	return "malformed value"
}
