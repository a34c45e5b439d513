package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel is the level at or above which records are written.
type LogLevel int

// Supported levels, in increasing severity.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levels = [...]struct {
	name  string
	level slog.Level
}{
	LogLevelDebug: {"DEBUG", slog.LevelDebug},
	LogLevelInfo:  {"INFO", slog.LevelInfo},
	LogLevelWarn:  {"WARN", slog.LevelWarn},
	LogLevelError: {"ERROR", slog.LevelError},
}

func (l LogLevel) valid() bool { return l >= 0 && int(l) < len(levels) }

func (l LogLevel) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return levels[l].name
}

func (l LogLevel) slogLevel() slog.Level {
	if !l.valid() {
		return slog.LevelInfo
	}
	return levels[l].level
}

// ParseLevel maps a case-insensitive level name to a LogLevel. "warning" is
// accepted for LogLevelWarn. Unknown names yield LogLevelInfo and false.
func ParseLevel(s string) (LogLevel, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LogLevelWarn, true
	}

	for l := range levels {
		if levels[l].name == name {
			return LogLevel(l), true
		}
	}

	return LogLevelInfo, false
}

// Logger is the logging interface accepted by tools, chat sessions and
// agents. Args are alternating key/value pairs as understood by slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter implements Logger on top of *slog.Logger.
type SlogAdapter struct {
	*slog.Logger
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.Logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.Logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// Config configures New.
type Config struct {
	Level     LogLevel
	Format    string // "json" (default) or "text"
	Output    io.Writer
	AddSource bool

	// Component, if set, is attached to every record.
	Component string
}

// New builds a slog backed Logger. A nil cfg logs JSON at info level to stderr.
func New(cfg *Config) Logger {
	c := Config{Level: LogLevelInfo}
	if cfg != nil {
		c = *cfg
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: c.Level.slogLevel(), AddSource: c.AddSource}

	var handler slog.Handler = slog.NewJSONHandler(c.Output, opts)
	if c.Format == "text" {
		handler = slog.NewTextHandler(c.Output, opts)
	}

	l := slog.New(handler)
	if c.Component != "" {
		l = l.With("component", c.Component)
	}

	return NewSlogAdapter(l)
}

// With returns a Logger that attaches args to every record. Loggers that are
// not slog backed are returned unchanged.
func With(l Logger, args ...any) Logger {
	if s, ok := l.(*SlogAdapter); ok {
		return &SlogAdapter{Logger: s.Logger.With(args...)}
	}
	return l
}

// OrNoOp returns l, or a NoOpLogger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}

// NoOpLogger discards everything. It is the default of every Options struct.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}
