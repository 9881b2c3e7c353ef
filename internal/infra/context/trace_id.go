package context

import (
	"context"
)

// TraceIDFromContext returns the request's trace ID. An empty ID counts as absent.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, _ := ctx.Value(contextKeyTraceID).(string)

	return traceID, traceID != ""
}

// WithTraceID tags ctx with the ID that is echoed to clients as X-Request-ID
// and forwarded to the weather provider.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, traceID)
}
