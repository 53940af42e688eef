package logging

import "context"

// contextKey is a private type for context values owned by this package
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	traceIDKey   contextKey = "trace_id"
)

// WithRequestID stores a request identifier in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithTraceID stores a trace identifier in the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// RequestID returns the request identifier stored in ctx, or ""
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// TraceID returns the trace identifier stored in ctx, or ""
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// CarryValues copies the trace fields from src onto dst. Background tasks
// launched from a request must call this at launch time so their log lines
// stay correlated after the request context is cancelled.
func CarryValues(dst context.Context, src context.Context) context.Context {
	if requestID := RequestID(src); requestID != "" {
		dst = WithRequestID(dst, requestID)
	}
	if traceID := TraceID(src); traceID != "" {
		dst = WithTraceID(dst, traceID)
	}
	return dst
}
