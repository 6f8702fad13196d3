package logging

import "github.com/vvka-141/fscache/pkg/fscache"

// NullLogger is a no-op logger that discards all log messages.
// Safe for concurrent use by multiple goroutines.
// The engine uses it when no logger is configured.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Verbose is a no-op.
func (l *NullLogger) Verbose(format string, args ...interface{}) {}

// Info is a no-op.
func (l *NullLogger) Info(format string, args ...interface{}) {}

// Error is a no-op.
func (l *NullLogger) Error(format string, args ...interface{}) {}

var (
	_ fscache.Logger = (*NullLogger)(nil)
	_ fscache.Logger = (*ConsoleLogger)(nil)
	_ fscache.Logger = (*RecordingLogger)(nil)
)
