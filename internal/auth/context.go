package auth

import (
	"context"
	"errors"

	"blog-platform/internal/user"
)

type ctxKey int

const ctxPrincipal ctxKey = iota

// WithPrincipal stores the authenticated user in the request context.
func WithPrincipal(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxPrincipal, u)
}

// Principal returns the authenticated user from context.
func Principal(ctx context.Context) (user.User, error) {
	if u, ok := ctx.Value(ctxPrincipal).(user.User); ok && u.ID != 0 {
		return u, nil
	}
	return user.User{}, errors.New("principal not in context")
}
