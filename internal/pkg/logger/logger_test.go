package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStdLoggerGatesDebugOnVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, false)
	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	log.Warn("shown", map[string]interface{}{"b": 2, "a": 1})
	if !strings.Contains(buf.String(), "[WARN] shown a=1 b=2") {
		t.Fatalf("unexpected warn line %q", buf.String())
	}
}

func TestStdLoggerError(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, true).Error("write failed", errors.New("disk full"), map[string]interface{}{"key": "k"})
	if !strings.Contains(buf.String(), "[ERROR] write failed disk full key=k") {
		t.Fatalf("unexpected error line %q", buf.String())
	}
}
