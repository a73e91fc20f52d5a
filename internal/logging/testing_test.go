package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_Assertions(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Info(ctx, "distilled", zap.String("run.id", "abc"))
	tl.Trace(ctx, "visited")

	tl.AssertLogged(t, zapcore.InfoLevel, "distilled")
	tl.AssertLogged(t, TraceLevel, "visited")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "distilled")
	tl.AssertField(t, "distilled", "run.id", "abc")
	tl.AssertNoSecrets(t)

	tl.Reset()
	if len(tl.All()) != 0 {
		t.Fatalf("expected no entries after reset, got %d", len(tl.All()))
	}
}

func TestTestLogger_AssertNoSecrets_DetectsLeak(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "leak", zap.String("api_token", "raw"))

	rec := &recordingTB{TB: t}
	tl.AssertNoSecrets(rec)
	if !rec.failed {
		t.Fatal("expected AssertNoSecrets to flag the raw token")
	}
}

// recordingTB captures failures instead of failing the enclosing test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) { r.failed = true }
