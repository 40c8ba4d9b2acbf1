// Package app wires configuration, stores and the HTTP router into a runnable
// service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/examready/identity-api/internal/api"
	"github.com/examready/identity-api/internal/api/handler"
	"github.com/examready/identity-api/internal/core/ports"
	"github.com/examready/identity-api/internal/core/service"
	mongostore "github.com/examready/identity-api/internal/infrastructure/db/mongo"
	pgstore "github.com/examready/identity-api/internal/infrastructure/db/postgres"
	redisstore "github.com/examready/identity-api/internal/infrastructure/db/redis"
	"github.com/examready/identity-api/internal/infrastructure/security"
	"github.com/examready/identity-api/internal/pkg/config"
)

const appName = "identity-api"

// App is the assembled service.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	echo    *echo.Echo
	closers []func(context.Context) error
}

// New builds the service. The signing key is checked before any connection is
// opened, so a weak key fails fast with domain.ErrWeakSigningKey.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	codec, err := security.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.TTL())
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	hasher, err := security.NewBcryptHasher(cfg.JWT.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	a := &App{cfg: cfg, log: log}

	repo, err := a.openStore(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	health := map[string]handler.Pinger{"identity_store": repo.Ping}

	var limiter *redisstore.AttemptLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		if cfg.RateLimit.SignInAttempts > 0 {
			limiter = redisstore.NewAttemptLimiter(rdb, cfg.RateLimit.SignInAttempts, cfg.RateLimit.SignInWindow)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	deps := api.Dependencies{
		AuthService: service.NewAuthService(repo, hasher, codec, log),
		Tokens:      codec,
		Health:      health,
		Logger:      log,
	}
	if cfg.RateLimit.TrustProxyHeaders {
		deps.IPExtractor = echo.ExtractIPFromXFFHeader()
	}
	// A nil *AttemptLimiter stored in the interface would not compare nil.
	if limiter != nil {
		deps.Limiter = limiter
	}
	a.echo = api.NewRouter(deps)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (ports.AuthRepository, error) {
	switch a.cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: a.cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })

		repo := pgstore.NewIdentityRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.log.Info().Msg("postgres identity store ready")
		return repo, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
			AppName:  appName,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)

		repo := mongostore.NewIdentityRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("mongo identity store ready")
		return repo, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("http server starting")
		if err := a.echo.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		a.close(context.Background())
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	err := a.echo.Shutdown(shutdownCtx)
	a.close(shutdownCtx)
	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close dependency")
		}
	}
	a.closers = nil
}
