package cache

import (
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not create pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	fn()
	os.Stdout = old
	w.Close()

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	return string(buf[:n])
}

func TestConsoleLoggerFormatsLevelAndPrefix(t *testing.T) {
	logger := NewConsoleLogger("pod-1")
	out := captureStdout(t, func() {
		logger.Warn("something happened", "key", "v")
	})
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "pod-1") || !strings.Contains(out, "something happened") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestNoOpLoggerDoesNothing(t *testing.T) {
	logger := NewNoOpLogger()
	out := captureStdout(t, func() {
		logger.Debug("x")
		logger.Warn("y")
		logger.Error("z")
	})
	if out != "" {
		t.Fatalf("expected no output from NoOpLogger, got %q", out)
	}
}
