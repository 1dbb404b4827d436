package linkshield

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a caller-chosen request ID to ctx. The gateway sends
// it as the X-Request-ID header instead of generating one, which lets callers
// correlate client and backend logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

type userAgentContextKey struct{}

// WithUserAgent overrides the configured User-Agent for requests made with
// ctx.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, ua)
}

func userAgentFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ua, _ := ctx.Value(userAgentContextKey{}).(string)
	return ua
}
