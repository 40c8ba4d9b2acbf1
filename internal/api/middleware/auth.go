package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/examready/identity-api/internal/api/metrics"
	"github.com/examready/identity-api/internal/core/domain"
	"github.com/examready/identity-api/internal/core/ports"
)

// BearerPrefix is the case-sensitive Authorization scheme prefix.
const BearerPrefix = "Bearer "

type authOptions struct {
	now func() time.Time
}

// AuthOption configures Authenticate.
type AuthOption func(*authOptions)

// WithClock overrides the time source used to check token expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(o *authOptions) { o.now = now }
}

// Authenticate binds an identity to requests carrying a valid bearer token.
// It never rejects: requests without a token, or with one that fails
// verification, continue anonymously and access decisions are left to
// RequireAuth / RequireAuthority.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger, opts ...AuthOption) echo.MiddlewareFunc {
	o := authOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			claims, err := verifier.Verify(token, o.now())
			if err != nil {
				reason := domain.TokenFailureReason(err)
				metrics.TokenVerificationsTotal.WithLabelValues(reason).Inc()
				log.Warn().
					Err(err).
					Str("reason", reason).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Msg("rejected bearer token, continuing anonymously")
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			bindIdentity(c, domain.NewIdentityContext(claims))
			log.Debug().Str("user_id", claims.SubjectID).Msg("request authenticated")
			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value. The
// header must start with exactly "Bearer " and carry a non-blank remainder.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := header[len(BearerPrefix):]
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}
