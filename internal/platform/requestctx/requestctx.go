package requestctx

import (
	"context"

	"github.com/google/uuid"
)

// Header carries the request id both on console responses and on calls to the backend.
const Header = "X-Request-ID"

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// EnsureRequestID returns the id already on ctx or mints a new one.
func EnsureRequestID(ctx context.Context) string {
	if id := GetRequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
