package logging

import (
	"strings"
	"testing"

	"github.com/fyrsmithlabs/jsondistill/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestRedactor(t *testing.T) *RedactingEncoder {
	t.Helper()
	enc, err := NewRedactingEncoder(newEncoder("json"), NewDefaultConfig().Redaction)
	require.NoError(t, err)
	return enc
}

func encode(t *testing.T, enc zapcore.Encoder, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "m"}, fields)
	require.NoError(t, err)
	defer buf.Free()
	return buf.String()
}

func TestSecretField(t *testing.T) {
	out := encode(t, newEncoder("json"), Secret("auth_token", config.Secret("abcdef")))
	assert.Contains(t, out, "[REDACTED:6]")
	assert.NotContains(t, out, "abcdef")
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("body", "12345")
	assert.Equal(t, "[REDACTED:5]", f.String)
}

func TestRedactingEncoder_FieldNames(t *testing.T) {
	out := encode(t, newTestRedactor(t),
		zap.String("Password", "p"),
		zap.String("json_string", "{}"),
		zap.Binary("private_key", []byte("k")),
		zap.Any("token", map[string]string{"a": "b"}),
		zap.String("tool", "ok"),
	)
	assert.Equal(t, 4, strings.Count(out, `"[REDACTED]"`))
	assert.Contains(t, out, `"tool":"ok"`)
}

func TestRedactingEncoder_Patterns(t *testing.T) {
	out := encode(t, newTestRedactor(t), zap.String("note", "api_key=abc123"))
	assert.Contains(t, out, "[REDACTED:pattern]")
	assert.NotContains(t, out, "abc123")
}

func TestRedactingEncoder_WithFields(t *testing.T) {
	enc := newTestRedactor(t)
	clone := enc.Clone()
	clone.AddString("secret", "s")
	clone.AddString("plain", "value")

	out := encode(t, clone)
	assert.Contains(t, out, `"secret":"[REDACTED]"`)
	assert.Contains(t, out, `"plain":"value"`)
}

func TestNewRedactingEncoder_Invalid(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: true, Patterns: []string{"("}})
	assert.ErrorContains(t, err, "invalid redaction pattern")

	_, err = NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: true, Patterns: []string{strings.Repeat("a", maxPatternLen+1)}})
	assert.ErrorContains(t, err, "too long")
}

func TestNewRedactingEncoder_DisabledPassesThrough(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder("json"), RedactionConfig{Enabled: false, Patterns: []string{"("}})
	require.NoError(t, err)

	out := encode(t, enc, zap.String("password", "visible"))
	assert.Contains(t, out, "visible")
}
