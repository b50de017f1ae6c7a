// Package log provides structured logging for gemkey.
//
// The Logger interface is backed by Go's stdlib slog so components can be
// handed a logger through options and tests can capture output. A global
// default exists for the CLI; it discards everything until main() installs
// a real handler.
//
// Output semantics:
//   - User output (stdout): the generated bookmarklet, verdict tables
//   - Diagnostic logging (stderr): Debug, Info, Warn, Error messages
//
// Credentials must never reach a log line in full. Use Redact when a key
// has to be mentioned.
package log

import (
	"log/slog"
	"strings"
	"sync"
)

// Logger is the interface for structured logging.
// Methods match slog's signature for easy integration.
type Logger interface {
	// Debug logs at DEBUG level: request/response details of a probe.
	Debug(msg string, args ...any)

	// Info logs at INFO level: pipeline stage transitions.
	Info(msg string, args ...any)

	// Warn logs at WARN level: recoverable configuration problems.
	Warn(msg string, args ...any)

	// Error logs at ERROR level.
	Error(msg string, args ...any)

	// With returns a Logger that adds the given key-value pairs to every entry.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the global logger configured at startup.
// Returns a noop logger if SetDefault has not been called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the global logger. Call once from main() after the
// verbosity flags are parsed.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// redactVisible is how many trailing characters of a key survive redaction.
const redactVisible = 4

// Redact masks a credential for logging. Keys long enough to carry a
// provider prefix keep the first four and last four characters
// ("AIza…wxyz"); anything shorter is fully masked.
func Redact(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 2*redactVisible {
		return strings.Repeat("*", len(key))
	}
	return key[:redactVisible] + "…" + key[len(key)-redactVisible:]
}
