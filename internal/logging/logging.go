// Package logging builds the structured loggers used across the module.
//
// Loggers are log/slog loggers. When a file is configured, output goes to a
// size-rotated file managed by lumberjack; otherwise to the writer given to
// New (stderr in the CLI). Recent warnings and errors are kept in memory so
// commands can summarize them after a run.
package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Wiktoryk/IDE/internal/config"
)

// recentSize is how many warnings and errors are retained.
const recentSize = 100

// Entry is a captured warning or error.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Logger wraps a slog.Logger with a mutable level, an optional rotating
// file and a record of recent warnings.
type Logger struct {
	*slog.Logger

	level  *slog.LevelVar
	closer io.Closer
	recent *recentBuffer
}

// New creates a logger from cfg. Output goes to cfg.File when set, to w
// otherwise. Callers should Close the logger when done.
func New(cfg config.LoggingConfig, w io.Writer) *Logger {
	level := new(slog.LevelVar)
	level.Set(ParseLogLevel(cfg.Level).Slog())

	l := &Logger{
		level:  level,
		recent: newRecentBuffer(recentSize),
	}

	out := w
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = rotator
		l.closer = rotator
	}
	if out == nil {
		out = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	if cfg.Format == "json" {
		inner = slog.NewJSONHandler(out, opts)
	} else {
		inner = slog.NewTextHandler(out, opts)
	}

	l.Logger = slog.New(&recordingHandler{inner: inner, recent: l.recent})
	return l
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Set(level.Slog())
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// WithComponent returns a logger with the component attribute set.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.With("component", component)
}

// Recent returns captured warnings and errors, oldest first.
func (l *Logger) Recent() []Entry {
	return l.recent.all()
}

// Counts returns how many warnings and errors were logged.
func (l *Logger) Counts() (warn, err int) {
	return l.recent.counts()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// recordingHandler copies warnings and errors into a ring buffer before
// passing records on.
type recordingHandler struct {
	inner  slog.Handler
	recent *recentBuffer
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.recent.add(Entry{Time: r.Time, Level: r.Level, Message: r.Message})
	}
	return h.inner.Handle(ctx, r)
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{inner: h.inner.WithAttrs(attrs), recent: h.recent}
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{inner: h.inner.WithGroup(name), recent: h.recent}
}

type recentBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRecentBuffer(size int) *recentBuffer {
	return &recentBuffer{entries: make([]Entry, size)}
}

func (rb *recentBuffer) add(e Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = e
	rb.head = (rb.head + 1) % len(rb.entries)
	if rb.count < len(rb.entries) {
		rb.count++
	}

	if e.Level >= slog.LevelError {
		rb.errorCount++
	} else {
		rb.warnCount++
	}
}

func (rb *recentBuffer) all() []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	size := len(rb.entries)
	out := make([]Entry, rb.count)
	for i := range out {
		out[i] = rb.entries[(rb.head-rb.count+i+size)%size]
	}
	return out
}

func (rb *recentBuffer) counts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}
