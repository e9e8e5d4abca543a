package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var defaultLogger = slog.Default()

// FromContext returns the request-scoped logger, or the default logger
// when ctx is nil or carries none.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the request-scoped logger, or fallback when ctx
// carries none. A nil fallback means the default logger.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	if fallback != nil {
		return fallback
	}

	return defaultLogger
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithRequestID returns a context whose logger carries request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, "request_id", requestID)
}

// WithTraceID returns a context whose logger carries trace_id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return with(ctx, "trace_id", traceID)
}

// WithCorrelationID returns a context whose logger carries correlation_id.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return with(ctx, "correlation_id", correlationID)
}

func with(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// SetDefault sets the logger used when no logger is in context.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
