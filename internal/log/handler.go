package log

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// DefaultMaxValueLen is the longest string attribute logged verbatim.
const DefaultMaxValueLen = 2048

// TruncatingHandler wraps an slog.Handler and shortens string attribute
// values longer than a limit. The tail of a value is kept, since the end of
// a tool's output usually carries the verdict.
type TruncatingHandler struct {
	handler slog.Handler
	maxLen  int
}

// NewTruncatingHandler creates a TruncatingHandler around handler.
// If handler is nil, slog.Default().Handler() is used. A maxLen of zero or
// less selects DefaultMaxValueLen.
func NewTruncatingHandler(handler slog.Handler, maxLen int) *TruncatingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &TruncatingHandler{handler: handler, maxLen: maxLen}
}

// Enabled delegates to the underlying handler.
func (h *TruncatingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shortens the record's attributes and passes it on.
func (h *TruncatingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.truncateAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *TruncatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	short := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		short[i] = h.truncateAttr(a)
	}
	return &TruncatingHandler{handler: h.handler.WithAttrs(short), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncatingHandler) WithGroup(name string) slog.Handler {
	return &TruncatingHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

func (h *TruncatingHandler) truncateAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		short := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			short[i] = h.truncateAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(short...)}
	}

	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); len(s) > h.maxLen {
			return slog.String(a.Key, Truncate(s, h.maxLen))
		}
	}
	return a
}

// Truncate keeps at most the last maxLen bytes of s, prefixed with a note
// on how much was dropped. The cut never splits a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	dropped := len(s) - maxLen
	for dropped < len(s) && !utf8.RuneStart(s[dropped]) {
		dropped++
	}
	return "[" + strconv.Itoa(dropped) + " bytes truncated]..." + s[dropped:]
}

// NewLogger creates a text logger writing to w. Verbose selects Debug level,
// otherwise only warnings and errors are logged.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewTruncatingHandler(slog.NewTextHandler(w, handlerOptions(verbose)), DefaultMaxValueLen))
}

// NewJSONLogger creates a JSON logger writing to w, for log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewTruncatingHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), DefaultMaxValueLen))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
