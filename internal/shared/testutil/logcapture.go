package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// LogRecord represents a captured log record
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type recordSink struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler captures log records for assertions
type BufferedSlogHandler struct {
	sink  *recordSink
	attrs []slog.Attr
	group string
}

// NewBufferedSlogHandler creates an empty capturing handler
func NewBufferedSlogHandler() *BufferedSlogHandler {
	return &BufferedSlogHandler{sink: &recordSink{}}
}

// Enabled captures every level
func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	h.sink.mu.Lock()
	h.sink.records = append(h.sink.records, rec)
	h.sink.mu.Unlock()
	return nil
}

func (h *BufferedSlogHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// WithAttrs returns a handler that shares the capture buffer. Keys are
// qualified by the group open at the time of the call.
func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &next
}

// WithGroup prefixes later keys with name
func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}

// Records returns a copy of everything captured so far
func (h *BufferedSlogHandler) Records() []LogRecord {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return append([]LogRecord(nil), h.sink.records...)
}

// Find returns the captured records with message at level
func (h *BufferedSlogHandler) Find(level slog.Level, message string) []LogRecord {
	var out []LogRecord
	for _, r := range h.Records() {
		if r.Level == level && r.Message == message {
			out = append(out, r)
		}
	}
	return out
}

// NewTestLogger returns a logger whose records land in the returned handler
func NewTestLogger() (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler()
	return slog.New(h), h
}

// AssertLogContains checks that message was logged at level
func AssertLogContains(t *testing.T, h *BufferedSlogHandler, level slog.Level, message string) bool {
	t.Helper()
	return assert.NotEmpty(t, h.Find(level, message),
		"expected %s log %q, got %v", level, message, h.Records())
}

// AssertLogAttr checks that some record carried key=value
func AssertLogAttr(t *testing.T, h *BufferedSlogHandler, key string, value any) bool {
	t.Helper()
	for _, r := range h.Records() {
		if v, ok := r.Attrs[key]; ok && assert.ObjectsAreEqual(value, v) {
			return true
		}
	}
	return assert.Fail(t, "log attribute not found", "%s=%v in %v", key, value, h.Records())
}

// AssertNoErrors checks that nothing was logged at error level
func AssertNoErrors(t *testing.T, h *BufferedSlogHandler) bool {
	t.Helper()
	var errs []LogRecord
	for _, r := range h.Records() {
		if r.Level >= slog.LevelError {
			errs = append(errs, r)
		}
	}
	return assert.Empty(t, errs)
}
