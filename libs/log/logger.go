// Package log provides the structured logger used by this module.
package log

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// StackKey is the attribute key of goroutine stacks. Stacks are only written
// by loggers that allow debug output.
const StackKey = "stack"

// Logger is the logging interface used by this module.
type Logger interface {
	Error(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Debug(msg string, keyvals ...any)

	// With returns a new contextual logger with keyvals prepended to those
	// passed to calls to Info, Warn, Debug or Error.
	With(keyvals ...any) Logger

	// Impl returns the underlying *slog.Logger, or nil.
	Impl() any
}

type options struct {
	level slog.Level
	noTS  bool
}

// Option configures a logger created by this package.
type Option func(*options)

// AllowAll allows every level. It is the default.
func AllowAll() Option { return AllowDebug() }

// AllowDebug allows debug and higher levels, stacks included.
func AllowDebug() Option { return allowLevel(slog.LevelDebug) }

// AllowInfo allows info and higher levels.
func AllowInfo() Option { return allowLevel(slog.LevelInfo) }

// AllowWarn allows warn and error levels.
func AllowWarn() Option { return allowLevel(slog.LevelWarn) }

// AllowError allows only the error level.
func AllowError() Option { return allowLevel(slog.LevelError) }

func allowLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

func newOptions(opts []Option) options {
	o := options{level: slog.LevelDebug}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// replaceAttr drops stacks when debug output is off, and timestamps when
// asked to.
func (o options) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == StackKey && o.level > slog.LevelDebug {
		return slog.Attr{}
	}
	if o.noTS && len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

type slogLogger struct {
	srcLogger *slog.Logger
}

var _ Logger = (*slogLogger)(nil)

// NewLogger returns a Logger writing colorized text to w through
// github.com/lmittmann/tint. w must be safe for concurrent use if the Logger
// is.
func NewLogger(w io.Writer, opts ...Option) Logger {
	o := newOptions(opts)
	return &slogLogger{slog.New(tint.NewHandler(w, &tint.Options{
		Level: o.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a = o.replaceAttr(groups, a)
			if err, ok := a.Value.Any().(error); ok {
				aErr := tint.Err(err)
				aErr.Key = a.Key
				return aErr
			}
			return a
		},
	}))}
}

// NewJSONLogger returns a Logger writing one JSON object per line to w.
func NewJSONLogger(w io.Writer, opts ...Option) Logger {
	o := newOptions(opts)
	return &slogLogger{slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       o.level,
		ReplaceAttr: o.replaceAttr,
	}))}
}

// NewJSONLoggerNoTS is NewJSONLogger without timestamps, for predictable test
// output.
func NewJSONLoggerNoTS(w io.Writer, opts ...Option) Logger {
	return NewJSONLogger(w, append(opts, func(o *options) { o.noTS = true })...)
}

func (l *slogLogger) Error(msg string, keyvals ...any) { l.srcLogger.Error(msg, keyvals...) }
func (l *slogLogger) Info(msg string, keyvals ...any)  { l.srcLogger.Info(msg, keyvals...) }
func (l *slogLogger) Warn(msg string, keyvals ...any)  { l.srcLogger.Warn(msg, keyvals...) }
func (l *slogLogger) Debug(msg string, keyvals ...any) { l.srcLogger.Debug(msg, keyvals...) }

func (l *slogLogger) With(keyvals ...any) Logger {
	return &slogLogger{l.srcLogger.With(keyvals...)}
}

func (l *slogLogger) Impl() any {
	return l.srcLogger
}
