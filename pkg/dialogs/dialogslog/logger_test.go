package dialogslog

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewJSONLoggerEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)
	logger.Info("turn completed", "dialog", "name_getter_dialog")

	out := buf.String()
	if !strings.Contains(out, `"msg":"turn completed"`) {
		t.Errorf("output = %q, want JSON msg field", out)
	}
	if !strings.Contains(out, `"dialog":"name_getter_dialog"`) {
		t.Errorf("output = %q, want dialog attribute", out)
	}
}

func TestNewDevLoggerWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDevLogger(&buf)
	logger.Debug("turn suspended", "dialog", "topic_dialog")

	if buf.Len() == 0 {
		t.Error("expected NewDevLogger to write output at Debug level")
	}
	if !strings.Contains(buf.String(), "turn suspended") {
		t.Errorf("output = %q, want to contain the log message", buf.String())
	}
}
