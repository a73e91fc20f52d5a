package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "0b7e6c1e-9f0a-4c56-8d1e-2f3a4b5c6d7e")
	assert.Equal(t, "0b7e6c1e-9f0a-4c56-8d1e-2f3a4b5c6d7e", RunIDFromContext(ctx))
	assert.Empty(t, RunIDFromContext(context.Background()))
}

func TestWithIDs_InvalidPanics(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "empty", id: ""},
		{name: "spaces", id: "has space"},
		{name: "newline", id: "abc\ninjected"},
		{name: "too_long", id: strings.Repeat("a", maxIDLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { WithRunID(context.Background(), tt.id) })
			assert.Panics(t, func() { WithRequestID(context.Background(), tt.id) })
		})
	}
}

func TestLogger_InContext(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	assert.Same(t, tl.Logger, FromContext(ctx))
}

func TestLogger_FromContextMissing(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info(context.Background(), "dropped") })
}
