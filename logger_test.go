package lamina

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	// Must not panic and must not be enabled at any level.
	l.Info("ignored")
	if l.Enabled(nil, slog.LevelError) {
		t.Error("expected default logger to be disabled")
	}
}

func TestSetLoggerRoutesRecords(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	Logger().Info("mesh built", "faces", 12)
	out := buf.String()
	if !strings.Contains(out, "mesh built") || !strings.Contains(out, "faces=12") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	SetLogger(nil)

	Logger().Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected nil reset to discard records, got %q", buf.String())
	}
}
