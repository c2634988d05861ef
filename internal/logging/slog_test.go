package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	l := slog.New(h)
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}
		if !strings.Contains(out, tc.key+"="+tc.val) {
			t.Fatalf("expected attribute %s=%s in output:\n%s", tc.key, tc.val, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log2 := log.With("component", "entries", "bucket", "gallery")
	log2.Info(ctx, "hello", "k", "v")

	out := buf.String()
	wantSubs := []string{
		"level=INFO",
		"msg=hello",
		"component=entries",
		"bucket=gallery",
		"k=v",
	}
	for _, s := range wantSubs {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestSlogLogger_ContextFields(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := WithFields(context.Background(), "request_id", "r-1")
	ctx = WithFields(ctx, "entry", "e-9")
	log.Info(ctx, "moved", "order", 3)

	out := buf.String()
	for _, s := range []string{"request_id=r-1", "entry=e-9", "order=3"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestSlogLogger_LevelFiltered(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	log.Info(WithFields(context.Background(), "k", "v"), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got:\n%s", buf.String())
	}
}

func TestFields_DoesNotAliasParent(t *testing.T) {
	parent := WithFields(context.Background(), "a", 1)
	left := WithFields(parent, "b", 2)
	right := WithFields(parent, "c", 3)

	if got := Fields(left); len(got) != 4 || got[2] != "b" {
		t.Fatalf("left fields = %v", got)
	}
	if got := Fields(right); len(got) != 4 || got[2] != "c" {
		t.Fatalf("right fields = %v", got)
	}
	if got := Fields(context.TODO()); got != nil {
		t.Fatalf("expected nil fields, got %v", got)
	}
}
