// Package ctxlog carries a slog.Logger through context.Context, so the
// runner and app can log without threading a logger through every signature.
package ctxlog

import (
	"context"
	"log/slog"
)

type key struct{}

// With returns a context carrying logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// From extracts the logger from ctx, falling back to the process default so
// library code never has to care whether one was installed.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
