// Package logger provides structured logging on top of charmbracelet/log.
package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// Level is a textual log level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ToCharmlogLevel converts the level, defaulting to info.
func (l Level) ToCharmlogLevel() charmlog.Level {
	switch Level(strings.ToLower(string(l))) {
	case DebugLevel:
		return charmlog.DebugLevel
	case InfoLevel:
		return charmlog.InfoLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Config controls logger construction.
type Config struct {
	Level      Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig logs at info level to stderr, keeping stdout for command
// output.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

type charmLogger struct {
	l *charmlog.Logger
}

// New creates a Logger. A nil cfg uses DefaultConfig.
func New(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.ToCharmlogLevel(),
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return &charmLogger{l: l}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New(&Config{Level: ErrorLevel, Output: io.Discard})
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...)}
}
