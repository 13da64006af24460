package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "short value unchanged", in: "abc", maxLen: 5, want: "abc"},
		{name: "exact length unchanged", in: "abcde", maxLen: 5, want: "abcde"},
		{name: "keeps the tail", in: "0123456789", maxLen: 4, want: "[6 bytes truncated]...6789"},
		{name: "does not split a rune", in: "ééé", maxLen: 3, want: "[4 bytes truncated]...é"},
		{name: "multi-byte runes on a boundary", in: "ééé", maxLen: 4, want: "[2 bytes truncated]...éé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestTruncatingHandler(t *testing.T) {
	t.Parallel()

	t.Run("shortens long string attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewJSONHandler(&buf, nil), 8))
		logger.Info("command finished", "stdout", strings.Repeat("x", 100)+"DONE", "exitCode", 0)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to decode log output: %v", err)
		}
		stdout, _ := entry["stdout"].(string)
		if !strings.HasSuffix(stdout, "xxxxDONE") || !strings.Contains(stdout, "truncated") {
			t.Errorf("unexpected stdout attribute %q", stdout)
		}
		if entry["exitCode"] != float64(0) {
			t.Errorf("non-string attribute changed: %v", entry["exitCode"])
		}
	})

	t.Run("shortens attributes inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 4))
		logger.Info("run", slog.Group("result", slog.String("stderr", "abcdefgh")))

		if strings.Contains(buf.String(), "abcdefgh") {
			t.Errorf("expected grouped value to be truncated: %s", buf.String())
		}
	})

	t.Run("shortens attributes added with With", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncatingHandler(slog.NewTextHandler(&buf, nil), 4)).
			With("log", "abcdefgh").
			WithGroup("g")
		logger.Info("msg")

		if strings.Contains(buf.String(), "abcdefgh") {
			t.Errorf("expected With value to be truncated: %s", buf.String())
		}
	})

	t.Run("zero limit selects the default", func(t *testing.T) {
		t.Parallel()

		h := NewTruncatingHandler(nil, 0)
		if h.maxLen != DefaultMaxValueLen {
			t.Errorf("got %d, expected %d", h.maxLen, DefaultMaxValueLen)
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("non-verbose hides debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Debug("hidden")
		logger.Warn("shown")

		if strings.Contains(buf.String(), "hidden") {
			t.Error("debug message should be suppressed")
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Error("warning should be logged")
		}
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewJSONLogger(&buf, true)
		logger.Debug("visible")

		if !strings.Contains(buf.String(), `"msg":"visible"`) {
			t.Errorf("expected JSON debug output, got %s", buf.String())
		}
	})
}
