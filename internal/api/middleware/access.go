package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentIdentity(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			return next(c)
		}
	}
}

// RequireAuthority allows requests whose identity holds any of the given
// authorities (e.g. "ROLE_ADMIN").
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			for _, a := range authorities {
				if id.HasAuthority(a) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
