package logger

import (
	"bytes"
	"strings"
	"testing"
)

type fixedChecker bool

func (f fixedChecker) IsVerbose() bool { return bool(f) }

func TestLogger_VerboseGating(t *testing.T) {
	var buf bytes.Buffer
	log := New("session", fixedChecker(false))
	log.SetWriter(&buf)

	log.Debug("hidden")
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("Debug/Info must be silent without verbose, got %q", buf.String())
	}

	log.Warn("always shown")
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("Warn should always be written, got %q", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithCallback("poller", func() bool { return true })
	log.SetWriter(&buf)

	log.Info("poll attempt failed", "job", "abc123", "attempt", 7)

	line := buf.String()
	for _, want := range []string{"[poller]", "poll attempt failed", "job=abc123", "attempt=7"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected log line to contain %q, got %q", want, line)
		}
	}
}

func TestLogger_UnpairedField(t *testing.T) {
	var buf bytes.Buffer
	log := New("", fixedChecker(true))
	log.SetWriter(&buf)

	log.Error("boom", "lonely")

	line := buf.String()
	if !strings.Contains(line, "[main]") {
		t.Errorf("Empty component should default to main, got %q", line)
	}
	if !strings.Contains(line, "[lonely]") {
		t.Errorf("Unpaired element should be logged as-is, got %q", line)
	}
}
