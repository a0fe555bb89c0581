package b2cflow

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDContextKey struct{}

// WithCorrelationID attaches a correlation identifier to ctx. The Client
// stamps it on prompt requests and audit events so one acquisition can be
// followed across collaborator and provider logs. When absent, a random
// UUID is generated per acquisition.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

func correlationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDContextKey{}).(string)
	return id
}

// ensureCorrelationID returns ctx unchanged when a correlation identifier
// is already attached, otherwise attaches a fresh UUID.
func ensureCorrelationID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if correlationIDFromContext(ctx) != "" {
		return ctx
	}
	return WithCorrelationID(ctx, uuid.NewString())
}
