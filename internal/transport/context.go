package transport

import (
	"context"
)

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// WithSessionID stores the cart session identifier on the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFrom returns the session identifier or "" when none was set.
func SessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}
