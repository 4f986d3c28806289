package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		t.Run(env, func(t *testing.T) {
			l, cleanup, err := NewLogger(env, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l == nil {
				t.Fatal("expected logger")
			}
			_ = cleanup()
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	_, _, err := NewLogger("staging", Options{})
	if err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, _, err := NewLogger("prod", Options{Level: "loud"})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, cleanup, err := NewLogger("prod", Options{Level: "warn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = cleanup() }()

	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("expected info to be disabled at warn level")
	}
	if !l.Core().Enabled(zap.WarnLevel) {
		t.Error("expected warn to be enabled")
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "osconnect.log")

	l, cleanup, err := NewLogger("prod", Options{File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("search executed", zap.String("index", "trades"))
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"search executed"`) {
		t.Errorf("expected record in log file, got %q", data)
	}
	if !strings.Contains(string(data), `"index":"trades"`) {
		t.Errorf("expected field in log file, got %q", data)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestFromContextOr(t *testing.T) {
	def := zap.NewExample()
	if FromContextOr(context.Background(), def) != def {
		t.Error("expected fallback logger")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContextOr(ctx, def) != l {
		t.Error("expected stored logger")
	}
}
