package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

const (
	initialBufferCapacity = 256

	timeFormat = "2006-01-02T15:04:05.000-07:00"

	// CorrelationKey is rendered as a bracketed prefix instead of a pair so
	// the lines of one dispatch line up when async gates interleave.
	CorrelationKey = "dispatch_id"
)

// CustomHandler writes slog records as single lines:
//
//	2026-03-01T12:00:00.000+01:00 INFO [01J...] msg key=value
//
// Handlers derived through WithAttrs and WithGroup share the writer lock, so
// concurrent gates never interleave partial lines.
type CustomHandler struct {
	writer io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewFileHandler creates a handler appending to the file at path.
func NewFileHandler(path string, level Level) (*CustomHandler, error) {
	//nolint:gosec // path comes from config or the XDG state dir
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return NewWriterHandler(file, level), nil
}

// NewWriterHandler creates a handler writing to w.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		writer: w,
		mu:     &sync.Mutex{},
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats r and writes it with a single Write call.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	buf := make([]byte, 0, initialBufferCapacity)
	buf = r.Time.Local().AppendFormat(buf, timeFormat)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)

	if id, rest, ok := h.correlation(attrs); ok {
		buf = append(buf, " ["...)
		buf = append(buf, id...)
		buf = append(buf, ']')
		attrs = rest
	}

	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, a := range attrs {
		buf = h.appendAttr(buf, a)
	}

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.writer.Write(buf)

	return err
}

// correlation extracts the last correlation attribute. Grouped handlers keep
// it as a regular pair.
func (h *CustomHandler) correlation(attrs []slog.Attr) (string, []slog.Attr, bool) {
	if len(h.groups) > 0 {
		return "", attrs, false
	}

	idx := -1

	for i, a := range attrs {
		if a.Key == CorrelationKey {
			idx = i
		}
	}

	if idx < 0 {
		return "", attrs, false
	}

	rest := make([]slog.Attr, 0, len(attrs)-1)

	for _, a := range attrs {
		if a.Key != CorrelationKey {
			rest = append(rest, a)
		}
	}

	return attrs[idx].Value.String(), rest, true
}

func (h *CustomHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}

	buf = append(buf, ' ')

	if len(h.groups) > 0 {
		buf = append(buf, strings.Join(h.groups, ".")...)
		buf = append(buf, '.')
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.Resolve().String()
	if needsQuoting(val) {
		return strconv.AppendQuote(buf, val)
	}

	return append(buf, val...)
}

// needsQuoting reports whether val would be ambiguous unquoted.
func needsQuoting(val string) bool {
	if val == "" {
		return true
	}

	return strings.ContainsFunc(val, func(c rune) bool {
		return c == '"' || c == '=' || unicode.IsSpace(c) || !unicode.IsPrint(c)
	})
}

// WithAttrs returns a handler with attrs added to every record.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append(make([]slog.Attr, 0, len(h.attrs)+len(attrs)), h.attrs...), attrs...)

	return &clone
}

// WithGroup returns a handler that prefixes keys with name.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = append(append(make([]string, 0, len(h.groups)+1), h.groups...), name)

	return &clone
}

// Close closes the underlying writer if it implements io.Closer.
func (h *CustomHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if closer, ok := h.writer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
