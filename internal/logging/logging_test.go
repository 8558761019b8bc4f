package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_InfoHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("shown", "id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=3") {
		t.Errorf("expected info line with fields, got %q", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("expected prefix %q in %q", Prefix, out)
	}
}

func TestNew_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
