package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev"} {
		l, err := NewLogger(env)
		if err != nil {
			t.Fatalf("NewLogger(%q) failed: %v", env, err)
		}
		if l == nil {
			t.Fatalf("NewLogger(%q) returned nil", env)
		}
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("local", "warn")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled with a warn override")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled with a warn override")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("local", "loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestFromContext(t *testing.T) {
	base := zap.NewNop().Named("req")
	ctx := ContextWithLogger(context.Background(), base)

	if got := FromContext(ctx); got != base {
		t.Error("expected the attached logger back")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("expected a nop logger for a bare context")
	}
}
