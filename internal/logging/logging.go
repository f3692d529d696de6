// Package logging provides a leveled logger with a structured slog face
// that can travel through a context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"cloudeng.io/logging/ctxlog"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// slogLevel maps a Level onto the slog scale.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a level.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Format selects the handler used for output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Logger is a leveled logger. The printf-style methods and the slog.Logger
// returned by Slog share level and output.
type Logger struct {
	level  slog.LevelVar
	out    *syncWriter
	slog   *slog.Logger
	format Format
}

// syncWriter serializes writes and allows the destination to be swapped.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// New creates a text logger writing to stderr.
func New(level Level) *Logger {
	return NewWithFormat(level, FormatText)
}

// NewWithFormat creates a logger writing to stderr with the given format.
func NewWithFormat(level Level, format Format) *Logger {
	l := &Logger{
		out:    &syncWriter{w: os.Stderr},
		format: format,
	}
	l.level.Set(level.slogLevel())

	opts := &slog.HandlerOptions{
		Level:       &l.level,
		ReplaceAttr: replaceTime,
	}
	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(l.out, opts)
	} else {
		h = slog.NewTextHandler(l.out, opts)
	}
	l.slog = slog.New(h)
	return l
}

// replaceTime shortens text timestamps to wall-clock milliseconds.
func replaceTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05.000"))
	}
	return a
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.set(w)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// Slog returns the structured logger backing l.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	lvl := level.slogLevel()
	if !l.slog.Enabled(context.Background(), lvl) {
		return
	}
	l.slog.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	l := New(LevelError + 1)
	l.SetOutput(io.Discard)
	return l
}

// WithContext returns a context carrying l's structured logger.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return ctxlog.WithLogger(ctx, l.Slog())
}

// FromContext returns the structured logger carried by ctx, or a logger
// that discards output if there is none.
func FromContext(ctx context.Context) *slog.Logger {
	return ctxlog.Logger(ctx)
}

// With returns a context whose logger carries the given attributes.
func With(ctx context.Context, attrs ...any) context.Context {
	return ctxlog.WithAttributes(ctx, attrs...)
}
