package analyses

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID tags ctx so analysis logs can be joined with the request log.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// logEvent writes an analysis event, adding the request ID carried by ctx.
func logEvent(ctx context.Context, write func(string, map[string]any), msg string, fields map[string]any) {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		fields["request_id"] = id
	}
	write(msg, fields)
}
