package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/examready/identity-api/docs"
	"github.com/examready/identity-api/internal/api/handler"
	"github.com/examready/identity-api/internal/api/middleware"
	"github.com/examready/identity-api/internal/core/domain"
	"github.com/examready/identity-api/internal/core/ports"
)

const signInScope = "sign-in"

// Dependencies are the collaborators the router wires into handlers and
// middleware.
type Dependencies struct {
	AuthService ports.AuthService
	Tokens      ports.TokenVerifier
	// Limiter throttles sign-in attempts; nil disables rate limiting.
	Limiter middleware.AttemptLimiter
	// Health lists the dependencies pinged by the readiness probe.
	Health map[string]handler.Pinger
	Logger zerolog.Logger
	// IPExtractor resolves the client IP used as the rate limit key. It
	// defaults to the TCP peer address, ignoring forwarding headers.
	IPExtractor echo.IPExtractor
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.IPExtractor == nil {
		deps.IPExtractor = echo.ExtractIPDirect()
	}
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	log := deps.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = deps.IPExtractor
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		ExposeHeaders: []string{echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "identity",
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))
	e.Use(middleware.Authenticate(deps.Tokens, log, middleware.WithClock(deps.Clock)))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	auth := e.Group("/api/auth")
	auth.POST("/sign-up", authHandler.SignUp)
	if deps.Limiter != nil {
		auth.POST("/sign-in", authHandler.SignIn, middleware.RateLimit(deps.Limiter, signInScope, log))
	} else {
		auth.POST("/sign-in", authHandler.SignIn)
	}

	// --- Authenticated routes ---
	identityHandler := handler.NewIdentityHandler()
	e.GET("/api/me", identityHandler.Me, middleware.RequireAuth())
	e.GET("/api/admin/ping", identityHandler.AdminPing, middleware.RequireAuthority(domain.RoleAdmin.Authority()))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
