package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf, "test")

	l.log(LevelInfo, "hidden %d", 1)
	l.log(LevelWarn, "shown %d", 2)
	l.log(LevelError, "shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected INFO line to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "WARN [test] shown 2") {
		t.Errorf("Expected WARN line, got: %s", out)
	}
	if !strings.Contains(out, "ERROR [test] shown 3") {
		t.Errorf("Expected ERROR line, got: %s", out)
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)
	SetLevel(LevelDebug)
	defer SetLevel(LevelInfo)

	Store("saved %d tasks", 4)
	Engine("dispatch %s", "MoveTask")

	out := buf.String()
	if !strings.Contains(out, "DEBUG [fluxboard] STORE: saved 4 tasks") {
		t.Errorf("Expected store category line, got: %s", out)
	}
	if !strings.Contains(out, "ENGINE: dispatch MoveTask") {
		t.Errorf("Expected engine category line, got: %s", out)
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarn:    "WARN",
		LevelError:   "ERROR",
		LogLevel(42): "UNKNOWN",
	}
	for level, expected := range tests {
		if got := level.String(); got != expected {
			t.Errorf("Expected %s, got %s", expected, got)
		}
	}
}
