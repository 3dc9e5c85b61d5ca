package web

import "context"

type requestIDKey struct{}

// WithRequestID stores the request id on the context for downstream handlers.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id previously stored with WithRequestID,
// or the empty string if the context carries none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
