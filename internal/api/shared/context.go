package shared

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey is the context key for the chat platform user id
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// Header names used for request correlation.
const (
	// RequestIDHeader carries a caller-supplied correlation id, e.g. from the
	// chat bridge.
	RequestIDHeader = "X-Request-ID"

	// TraceIDHeader echoes the trace id back on every response.
	TraceIDHeader = "X-Trace-ID"
)

// caller-supplied ids end up in logs; keep them short and printable
var validTraceID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// SetTraceID adds a trace ID to the context. A valid candidate (usually the
// X-Request-ID header) is used as is; otherwise a fresh UUID is generated.
func SetTraceID(ctx context.Context, candidate string) context.Context {
	traceID := candidate
	if !validTraceID.MatchString(traceID) {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserID returns the authenticated user id, or false when the request
// did not pass through the auth middleware.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
