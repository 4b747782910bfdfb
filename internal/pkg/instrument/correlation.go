package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID returns a context carrying the correlation ID for the
// current request or message.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID returns the correlation ID stored in ctx, or "" when absent.
func GetCorrelationID(ctx context.Context) string {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}
