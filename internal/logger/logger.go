// Package logger wraps log/slog with the process-tracking helpers used across
// the availability service.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type ctxKey struct{}

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// Initialize installs the global logger. Unknown levels fall back to info and
// any format other than "json" produces text output.
func Initialize(level, format string) {
	InitializeWriter(os.Stdout, level, format)
}

func InitializeWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler).With("app", "buurbak-availability")
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Get() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		Initialize("info", "text")
		return Get()
	}
	return l
}

// NewContext stores a request scoped logger in ctx.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request scoped logger, or the global one.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return Get()
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

func InfoContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).ErrorContext(ctx, msg, args...)
}

func WithService(name string) *slog.Logger {
	return Get().With("service", name)
}

// EnterMethod logs method entry at debug level
func EnterMethod(method string, args ...any) {
	Get().Debug("→ Method entered", prepend(args, "method", method, "event", "enter")...)
}

// ExitMethod logs method exit at debug level
func ExitMethod(method string, args ...any) {
	Get().Debug("← Method exited", prepend(args, "method", method, "event", "exit")...)
}

// ExitMethodWithError logs a failed method exit at error level
func ExitMethodWithError(method string, err error, args ...any) {
	Get().Error("← Method exited with error", prepend(args, "method", method, "event", "exit", "error", err)...)
}

func DatabaseCall(operation, query string, args ...any) {
	Get().Debug("→ Database call", prepend(args, "operation", operation, "query", query)...)
}

func DatabaseResult(operation string, rows int64, err error, args ...any) {
	all := prepend(args, "operation", operation, "rows_affected", rows)
	if err != nil {
		Get().Error("← Database call failed", append(all, "error", err)...)
		return
	}
	Get().Debug("← Database call succeeded", all...)
}

// ExternalServiceCall logs a call to redis, the message broker or similar.
func ExternalServiceCall(service, operation string, args ...any) {
	Get().Debug("→ External service call", prepend(args, "service", service, "operation", operation)...)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	all := prepend(args, "service", service, "operation", operation)
	if err != nil {
		Get().Warn("← External service call failed", append(all, "error", err)...)
		return
	}
	Get().Debug("← External service call succeeded", all...)
}

func prepend(args []any, head ...any) []any {
	out := make([]any, 0, len(head)+len(args))
	out = append(out, head...)
	return append(out, args...)
}
