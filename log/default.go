package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

//nolint:gochecknoglobals
var (
	defaultMu     sync.RWMutex
	defaultLogger = Make(os.Stderr)
)

// Default returns the process-wide logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLogger
}

// Config applies opts to the process-wide logger and returns the result.
func Config(opts ...Option) Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLogger = defaultLogger.Wrap(opts...)

	return defaultLogger
}

// Trace logs at [LevelTrace] using the default logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().logSkip(context.Background(), callerSkip, LevelTrace, msg, attrs...)
}

// Debug logs at [LevelDebug] using the default logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().logSkip(context.Background(), callerSkip, LevelDebug, msg, attrs...)
}

// Info logs at [LevelInfo] using the default logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().logSkip(context.Background(), callerSkip, LevelInfo, msg, attrs...)
}

// Warn logs at [LevelWarn] using the default logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().logSkip(context.Background(), callerSkip, LevelWarn, msg, attrs...)
}

// Error logs at [LevelError] using the default logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().logSkip(context.Background(), callerSkip, LevelError, msg, attrs...)
}

// ErrorContext logs at [LevelError] with ctx using the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, callerSkip, LevelError, msg, attrs...)
}

// TraceContext logs at [LevelTrace] with ctx using the default logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, callerSkip, LevelTrace, msg, attrs...)
}

// DebugContext logs at [LevelDebug] with ctx using the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, callerSkip, LevelDebug, msg, attrs...)
}

// InfoContext logs at [LevelInfo] with ctx using the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, callerSkip, LevelInfo, msg, attrs...)
}

// WarnContext logs at [LevelWarn] with ctx using the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().logSkip(ctx, callerSkip, LevelWarn, msg, attrs...)
}
