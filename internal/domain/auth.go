package domain

import "context"

type contextKey string

// userContextKey carries the authenticated owner's ID through a request
const userContextKey contextKey = "authenticated_user_id"

// WithUser returns a context carrying the authenticated user's ID
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserFromContext extracts the authenticated user's ID, if present
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userContextKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
