package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogUsableBeforeInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log should never be nil")
	}
	Log.Info("no-op logger accepts entries")
}

func TestInitLevels(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	if err := Init("debug", true); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !Log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	if err := Init("not-a-level", false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("unknown level should fall back to info")
	}
	if !Log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled")
	}
}
