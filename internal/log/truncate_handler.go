package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultMaxValueLen is the length at which string attribute values are
// truncated. Long enough to keep full archive paths and finding
// messages, short enough to stop document bodies from flooding logs.
const DefaultMaxValueLen = 256

// TruncateHandler wraps an slog.Handler to cap oversized string values.
// It intercepts log records and truncates string attributes before
// passing them to the underlying handler, appending a marker with the
// original length.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay free of ad-hoc truncation logic
type TruncateHandler struct {
	// handler is the underlying slog handler that receives capped records.
	handler slog.Handler

	// maxValueLen is the maximum length of a string attribute value.
	maxValueLen int
}

// NewTruncateHandler creates a new TruncateHandler wrapping the given handler.
// If handler is nil, the returned TruncateHandler uses slog.Default().Handler().
// A maxValueLen of 0 or less means DefaultMaxValueLen.
func NewTruncateHandler(handler slog.Handler, maxValueLen int) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxValueLen <= 0 {
		maxValueLen = DefaultMaxValueLen
	}
	return &TruncateHandler{handler: handler, maxValueLen: maxValueLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle caps the record's attributes and passes it to the underlying handler.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are capped before being added.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cappedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cappedAttrs[i] = h.truncateAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(cappedAttrs), maxValueLen: h.maxValueLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxValueLen: h.maxValueLen}
}

// truncateAttr caps a single attribute, recursively handling groups.
func (h *TruncateHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cappedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cappedAttrs[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cappedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		if val := a.Value.String(); len(val) > h.maxValueLen {
			return slog.String(a.Key,
				fmt.Sprintf("%s... (%d bytes)", val[:h.maxValueLen], len(val)))
		}
	}

	return a
}

// NewLogger creates a new slog.Logger with value truncation.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTruncateHandler(textHandler, DefaultMaxValueLen))
}

// NewJSONLogger creates a new slog.Logger with value truncation that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewTruncateHandler(jsonHandler, DefaultMaxValueLen))
}
