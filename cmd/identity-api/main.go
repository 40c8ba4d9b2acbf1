package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/examready/identity-api/internal/app"
	"github.com/examready/identity-api/internal/core/domain"
	"github.com/examready/identity-api/internal/pkg/config"
	"github.com/examready/identity-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "identity-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		if errors.Is(err, domain.ErrWeakSigningKey) {
			log.Fatal().Err(err).Msg("refusing to start with a weak JWT_SECRET")
		}
		log.Fatal().Err(err).Msg("create app")
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run app")
	}
	log.Info().Msg("stopped")
}
