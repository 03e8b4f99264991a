package auth

import (
	"context"

	"epicevents.org/internal/store"
)

type userContextKey struct{}

// ContextWithUser attaches the resolved employee to the context.
func ContextWithUser(ctx context.Context, user *store.Employee) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the resolved employee from the context.
func UserFromContext(ctx context.Context) (*store.Employee, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(userContextKey{}).(*store.Employee)
	if !ok || u == nil {
		return nil, false
	}
	return u, true
}
