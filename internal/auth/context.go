package auth

import (
	"context"
	"errors"

	"auth-api/internal/user"
)

type ctxKey struct{}

// WithUser stores the authenticated user in the request context.
// The transport layer resolves identity once per request; downstream code
// reads the resolved value instead of re-parsing tokens.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the authenticated user placed by the middleware.
func FromContext(ctx context.Context) (user.User, error) {
	if u, ok := ctx.Value(ctxKey{}).(user.User); ok && u.ID != 0 {
		return u, nil
	}
	return user.User{}, errors.New("no authenticated user in context")
}
