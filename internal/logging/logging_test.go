package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := New("")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug to be disabled by default")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be enabled")
	}
}

func TestNewHonoursLevel(t *testing.T) {
	t.Parallel()

	logger, err := New("debug")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug to be enabled")
	}
}

func TestNewIgnoresUnknownLevel(t *testing.T) {
	t.Parallel()

	logger, err := New("chatty")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected unknown level to fall back to info")
	}
}
