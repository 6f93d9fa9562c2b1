package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")

	logger, err := New("warn", path, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(content, "visible") || !strings.Contains(content, "WARN") {
		t.Errorf("unexpected log content: %q", content)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", "", false); err == nil {
		t.Error("expected error")
	}
}

func TestVerboseForcesDebug(t *testing.T) {
	logger, err := New("error", filepath.Join(t.TempDir(), "x.log"), true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}
