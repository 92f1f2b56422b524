// Package ctxlog passes a request-scoped slog.Logger through contexts.
package ctxlog

import (
	"context"
	"log/slog"
)

// loggerKey is unexported so only this package can collide with it.
type loggerKey struct{}

// WithLogger returns a context carrying logger. The request-logging
// middleware stores a logger enriched with the request id here.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, falling back to
// slog.Default() so callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
