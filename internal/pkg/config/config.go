package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
	StoreDriver     string        `env:"STORE_DRIVER,     default=mongo"`

	JWT       JWTConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// JWTConfig holds the token signing settings. Both values are fixed for the
// life of the process.
type JWTConfig struct {
	// Secret is hex encoded and must decode to at least 32 bytes.
	Secret           string `env:"JWT_SECRET,        required"`
	ExpirationMillis int64  `env:"JWT_EXPIRATION_MS, required"`
	BcryptCost       int    `env:"BCRYPT_COST,       default=10"`
}

// TTL returns the token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMillis) * time.Millisecond
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=examready"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

// RedisConfig is optional; an empty Addr disables Redis-backed features.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	SignInAttempts int           `env:"SIGNIN_RATE_LIMIT,  default=10"`
	SignInWindow   time.Duration `env:"SIGNIN_RATE_WINDOW, default=1m"`

	// TrustProxyHeaders keys the limiter on X-Forwarded-For. Enable only
	// behind a proxy that overwrites the header.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS, default=false"`
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMongo:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWT.ExpirationMillis <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MS must be positive"))
	}
	if c.RateLimit.SignInAttempts < 0 {
		errs = append(errs, errors.New("SIGNIN_RATE_LIMIT must not be negative"))
	}
	if c.RateLimit.SignInAttempts > 0 && c.RateLimit.SignInWindow <= 0 {
		errs = append(errs, errors.New("SIGNIN_RATE_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
