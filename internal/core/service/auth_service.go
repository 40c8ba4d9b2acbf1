package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/examready/identity-api/internal/core/domain"
	"github.com/examready/identity-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.AuthRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.AuthRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a USER account for username and returns it without the
// password hash. The lookup and the insert are
// separate store calls, so a concurrent registration can slip between them;
// the store's unique constraint catches that case and it is reported the same
// way as a lookup hit.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		s.logger.Info().Str("username", username).Msg("registration rejected: username taken")
		return nil, &domain.DuplicateUsernameError{Username: username}
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	// Hashing ignores ctx; don't write on behalf of a caller that has gone away.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.logger.Warn().Str("username", username).Msg("registration lost race on unique username")
			return nil, &domain.DuplicateUsernameError{Username: username}
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	out := *created
	out.PasswordHash = ""
	return &out, nil
}

// Login verifies the credentials and returns a signed token. An unknown
// username and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("username", username).Msg("login failed: unknown user")
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: lookup user: %w", err)
	}

	if !user.Enabled {
		s.logger.Info().Str("username", username).Msg("login failed: account disabled")
		return "", domain.ErrAccountDisabled
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Info().Str("username", username).Msg("login failed: bad password")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role, s.now())
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return token, nil
}
