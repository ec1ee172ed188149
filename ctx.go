package board

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// UserFromRouterContext extracts the authenticated user placed in the router
// locals by the authenticated guard.
func UserFromRouterContext(ctx router.Context) (*User, bool) {
	raw := ctx.Locals(localsUserKey)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}

// localsUserKey is where the guard stores the rehydrated user.
const localsUserKey = "board_user"
