package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for level, want := range cases {
		l, err := New(level, "json")
		if err != nil {
			t.Fatalf("New(%q): %v", level, err)
		}
		if !l.Core().Enabled(want) {
			t.Errorf("%q: level %s should be enabled", level, want)
		}
		if want > zapcore.DebugLevel && l.Core().Enabled(want-1) {
			t.Errorf("%q: level %s should be disabled", level, want-1)
		}
	}
}

func TestNewRejectsUnknown(t *testing.T) {
	if _, err := New("verbose", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("expected error for unknown encoding")
	}
	if _, err := New("info", "console"); err != nil {
		t.Errorf("console encoding: %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("logger not returned from context")
	}
}
