// Package log provides the structured logger shared by every embedclock
// binary.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Namespaces used across embedclock, passed to the *Ns logging methods.
const (
	NsCLI     = "cli"
	NsConn    = "conn"
	NsEngine  = "engine"
	NsRuntime = "runtime"
	NsBench   = "bench"
)

// Logger is a custom structured logger on top of slog.Logger
// that logs in JSON format.
type Logger struct {
	slogger *slog.Logger
}

// NewLogger creates a new Logger that writes to the given writer and drops
// records below level. The writer is typically os.Stderr so stdout is left
// for the program output.
func NewLogger(writer io.Writer, level slog.Level) Logger {
	slogger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	return Logger{
		slogger: slogger,
	}
}

// IsInitialized reports whether the logger was created with NewLogger.
func (l *Logger) IsInitialized() bool {
	return l.slogger != nil
}

// ParseLevel converts a level name (debug, info, warn, error) into a
// slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf(
		"invalid log level %q, valid values are: debug, info, warn, error", level,
	)
}

// ErrUninitialized is returned by constructors that receive a zero Logger.
var ErrUninitialized = errors.New("logger is required")

// Info logs structured info message.
//
// Accepts a message and a list of key-value pairs to be logged.
func (l *Logger) Info(msg string, keyVals ...KV) {
	l.slogger.Info(msg, kvToArgs(keyVals...)...)
}

// InfoNs logs structured info message with a namespace.
//
// The namespace is used to differentiate logs from different parts
// and will be included as the first key-value pair in the log.
func (l *Logger) InfoNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Info(msg, kvToArgsNs(namespace, keyVals...)...)
}

// Debug logs structured debug message.
func (l *Logger) Debug(msg string, keyVals ...KV) {
	l.slogger.Debug(msg, kvToArgs(keyVals...)...)
}

// DebugNs logs structured debug message with a namespace.
func (l *Logger) DebugNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Debug(msg, kvToArgsNs(namespace, keyVals...)...)
}

// Warn logs structured warning message.
func (l *Logger) Warn(msg string, keyVals ...KV) {
	l.slogger.Warn(msg, kvToArgs(keyVals...)...)
}

// WarnNs logs structured warning message with a namespace.
func (l *Logger) WarnNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Warn(msg, kvToArgsNs(namespace, keyVals...)...)
}

// Error logs structured error message.
func (l *Logger) Error(msg string, keyVals ...KV) {
	l.slogger.Error(msg, kvToArgs(keyVals...)...)
}

// ErrorNs logs structured error message with a namespace.
func (l *Logger) ErrorNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Error(msg, kvToArgsNs(namespace, keyVals...)...)
}
