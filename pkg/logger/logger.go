// Package logger provides structured key=value logging for clientup.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// LogFilePermissions keeps the log readable by its owner only.
const LogFilePermissions = 0o600

// SlogAdapter implements Logger on top of slog with a CustomHandler.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// NewFileLogger creates a logger appending to filePath, creating parent
// directories as needed.
func NewFileLogger(filePath string, debugMode, traceMode bool) (*SlogAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	//nolint:gosec // File path comes from xdg or CLIENTUP_LOG_FILE
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return NewFileLoggerWithWriter(file, debugMode, traceMode), nil
}

// NewFileLoggerWithWriter creates a logger writing to w.
func NewFileLoggerWithWriter(w io.Writer, debugMode, traceMode bool) *SlogAdapter {
	handler := NewWriterHandler(w, LevelFromFlags(debugMode, traceMode))

	return &SlogAdapter{
		logger:  slog.New(handler),
		handler: handler,
	}
}

func (a *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

func (a *SlogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

func (a *SlogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

//nolint:ireturn // With is intended to return an interface for chaining
func (a *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{
		logger:  a.logger.With(keysAndValues...),
		handler: a.handler,
	}
}

// Close closes the underlying writer when it is closable.
func (a *SlogAdapter) Close() error {
	return a.handler.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (*NoOpLogger) Debug(string, ...any) {}

func (*NoOpLogger) Info(string, ...any) {}

func (*NoOpLogger) Error(string, ...any) {}

//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
