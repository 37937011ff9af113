package auth

import (
	"context"

	"github.com/baynext/baynext/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// currentUserKey is the context key for the resolved user.
const currentUserKey contextKey = "current_user"

// ContextWithUser adds the resolved user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// UserFromContext retrieves the resolved user from the context.
// Returns nil if the request was not authenticated.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(currentUserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustUserFromContext retrieves the resolved user from the context.
// Panics if not present (use only when auth middleware has run).
func MustUserFromContext(ctx context.Context) *model.User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("current user not found - ensure auth middleware is applied")
	}
	return user
}
