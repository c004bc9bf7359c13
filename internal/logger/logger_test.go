package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"pyvm/internal/logger"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Setup(&buf, false, true)
	l.Debug("calling", "func", "main")
	l.Warn("careful")

	out := buf.String()
	if strings.Contains(out, "calling") {
		t.Errorf("debug output must be hidden without -v:\n%s", out)
	}
	if !strings.Contains(out, "PYVM") || !strings.Contains(out, "careful") {
		t.Errorf("expected prefixed warning, got:\n%s", out)
	}

	buf.Reset()
	l = logger.Setup(&buf, true, true)
	l.Debug("calling", "func", "main")
	if !strings.Contains(buf.String(), "func=main") {
		t.Errorf("expected debug output with -v, got:\n%s", buf.String())
	}
}
