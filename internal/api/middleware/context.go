package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/examready/identity-api/internal/core/domain"
)

// identityKey is the echo context key holding the *domain.IdentityContext.
const identityKey = "identity"

type identityCtxKey struct{}

// WithIdentity returns a copy of ctx carrying the request identity.
func WithIdentity(ctx context.Context, id *domain.IdentityContext) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFrom returns the identity bound to ctx, if any.
func IdentityFrom(ctx context.Context) (*domain.IdentityContext, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*domain.IdentityContext)
	return id, ok && id != nil
}

// CurrentIdentity returns the identity bound to the request, if any.
func CurrentIdentity(c echo.Context) (*domain.IdentityContext, bool) {
	id, ok := c.Get(identityKey).(*domain.IdentityContext)
	return id, ok && id != nil
}

func bindIdentity(c echo.Context, id *domain.IdentityContext) {
	c.Set(identityKey, id)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
}
