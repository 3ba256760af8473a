package grove

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerDefaultSilent(t *testing.T) {
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLoggerDebugWarnings(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	e := testEngine()
	e.SetDebug(true)
	parent := NewNode("deep")
	e.AddChild(parent)
	cur := parent
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		c := NewNode("level")
		cur.AddChild(c)
		cur = c
	}
	_ = e.Step()

	out := buf.String()
	if !strings.Contains(out, "tree depth exceeds threshold") {
		t.Error("expected a tree depth warning")
	}
	if !strings.Contains(out, "msg=register") || !strings.Contains(out, "msg=frame") {
		t.Error("expected register and frame debug records")
	}

	SetLogger(nil)
	if Logger().Enabled(t.Context(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
