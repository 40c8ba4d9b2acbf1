package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/examready/identity-api/internal/api/metrics"
)

// AttemptLimiter abstracts the attempt counter (Redis).
type AttemptLimiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, error)
}

// RateLimit rejects with 429 once the client IP exhausts its attempts in
// scope. Limiter failures let the request through.
func RateLimit(limiter AttemptLimiter, scope string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, err := limiter.Allow(c.Request().Context(), scope, ip)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				log.Info().Str("scope", scope).Str("ip", ip).Msg("rate limit exceeded")
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts")
			}
			return next(c)
		}
	}
}
