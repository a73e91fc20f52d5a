package distill

import (
	"strconv"
	"strings"
)

// isFloatLiteral reports whether a JSON number literal denotes a float: it
// has a fraction or exponent, or it does not fit a 64-bit integer.
func isFloatLiteral(lit string) bool {
	if strings.ContainsAny(lit, ".eE") {
		return true
	}
	if _, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return false
	}
	if _, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return false
	}
	return true
}
