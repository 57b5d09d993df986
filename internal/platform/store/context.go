package store

import "context"

type (
	reqIDKey struct{}
	groupKey struct{}
)

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// WithGroup attaches the telegram group id the query relates to
func WithGroup(ctx context.Context, groupID string) context.Context {
	return context.WithValue(ctx, groupKey{}, groupID)
}

// GroupID retrieves a group id from context if present
func GroupID(ctx context.Context) (string, bool) {
	v := ctx.Value(groupKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
