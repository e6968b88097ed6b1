package requestctx

import (
	"context"

	"nexus-gateway/internal/model"
)

type ctxKey string

const (
	correlationIDKey ctxKey = "correlation_id"
	identityKey      ctxKey = "identity"
)

// WithCorrelationID returns a new context with the provided correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID fetches the correlation ID from the context, if any.
func CorrelationID(ctx context.Context) string {
	v := ctx.Value(correlationIDKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// WithIdentity returns a new context carrying the caller identity.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Identity fetches the caller identity from the context.
func Identity(ctx context.Context) (model.Identity, bool) {
	v, ok := ctx.Value(identityKey).(model.Identity)
	return v, ok
}
