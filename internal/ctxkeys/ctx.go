package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	CorrelationIDKey contextKey = "correlation_id"
)

// CorrelationID returns the correlation id threaded through the request, or
// "" when the request was never tagged.
func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(CorrelationIDKey).(string)
	return cid
}

func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, cid)
}
