package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/examready/identity-api/internal/core/domain"
	"github.com/examready/identity-api/internal/pkg/config"
)

func TestNew_RejectsWeakSigningKey(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverMongo,
		JWT: config.JWTConfig{
			Secret:           "00112233",
			ExpirationMillis: int64(time.Hour / time.Millisecond),
			BcryptCost:       10,
		},
	}

	_, err := New(context.Background(), cfg, zerolog.New(io.Discard))
	if !errors.Is(err, domain.ErrWeakSigningKey) {
		t.Fatalf("expected ErrWeakSigningKey, got %v", err)
	}
}

func TestNew_RejectsBadBcryptCost(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverMongo,
		JWT: config.JWTConfig{
			Secret:           "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
			ExpirationMillis: 1000,
			BcryptCost:       99,
		},
	}

	if _, err := New(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Fatalf("expected error for bcrypt cost 99")
	}
}
