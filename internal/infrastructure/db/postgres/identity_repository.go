package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/examready/identity-api/internal/core/domain"
)

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// IdentityRepository stores users in PostgreSQL. The UNIQUE constraint on
// users.username backs the registration race check.
type IdentityRepository struct {
	db DB
}

func NewIdentityRepository(db DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// EnsureSchema creates the users table if it does not exist.
func (r *IdentityRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (r *IdentityRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (id, username, password, email, role, enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, q,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Email,
		string(user.Role),
		user.Enabled,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	return &created, nil
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT id::text, username, password, email, role, enabled, created_at, updated_at
FROM users
WHERE username = $1`

	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRow(ctx, q, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&role,
		&u.Enabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *IdentityRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
