package ardent

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// captureLogs routes ardent's logger into a buffer for the duration of the
// test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestLoggerSilentByDefault(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should discard everything")
	}
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	buf := captureLogs(t)
	s := NewSceneWithConfig(Config{Debug: true, MaxTreeDepth: 3})

	parent := s.Root()
	for range 4 {
		parent, _ = s.Insert(parent, NewGroup("deep"))
	}
	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected depth warning, got %q", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	buf := captureLogs(t)
	s := NewSceneWithConfig(Config{Debug: true, MaxChildCount: 2})

	for range 3 {
		s.Insert(s.Root(), NewGroup("c"))
	}
	if !strings.Contains(buf.String(), "child count exceeds threshold") {
		t.Errorf("expected child count warning, got %q", buf.String())
	}
}

func TestDebugMode_ReparentChecks(t *testing.T) {
	buf := captureLogs(t)
	s := NewSceneWithConfig(Config{Debug: true, MaxChildCount: 1})
	a, _ := s.Insert(s.Root(), NewGroup("a"))
	b, _ := s.Insert(s.Root(), NewGroup("b"))
	buf.Reset()

	c, _ := s.Insert(b, NewGroup("c"))
	s.Reparent(c, a)
	s.Reparent(b, a)
	if !strings.Contains(buf.String(), "child count exceeds threshold") {
		t.Errorf("expected warning on reparent, got %q", buf.String())
	}
}

func TestReleaseMode_NoWarnings(t *testing.T) {
	buf := captureLogs(t)
	s := NewSceneWithConfig(Config{MaxTreeDepth: 1, MaxChildCount: 1})
	for range 3 {
		s.Insert(s.Root(), NewGroup("c"))
	}
	s.Layout(Size{Width: 10, Height: 10})
	s.Snapshot()
	if buf.Len() != 0 {
		t.Errorf("release mode logged: %q", buf.String())
	}
}

func TestDebugMode_LayoutAndSnapshotStats(t *testing.T) {
	buf := captureLogs(t)
	s := NewScene()
	s.SetDebugMode(true)
	r, _ := s.Insert(s.Root(), NewGroup("row").WithLayout(LayoutSpec{Direction: Row}))
	s.Insert(r, NewRect("a", 10, 10).WithLayout(Flex()))

	s.Layout(Size{Width: 100, Height: 100})
	out := buf.String()
	if !strings.Contains(out, "ardent: layout") || !strings.Contains(out, "arranged=2") {
		t.Errorf("layout stats missing: %q", out)
	}

	buf.Reset()
	s.Snapshot()
	out = buf.String()
	if !strings.Contains(out, "ardent: snapshot") || !strings.Contains(out, "items=1") {
		t.Errorf("snapshot stats missing: %q", out)
	}
}

func TestScreenshotWithoutSinkLogsDebug(t *testing.T) {
	buf := captureLogs(t)
	NewScene().Screenshot("lost")
	if !strings.Contains(buf.String(), "label=lost") {
		t.Errorf("log = %q", buf.String())
	}
}
