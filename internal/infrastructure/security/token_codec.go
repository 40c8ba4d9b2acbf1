// Package security holds the token codec and password hasher used by the
// authentication flows.
package security

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/examready/identity-api/internal/core/domain"
)

// MinKeyBytes is the minimum decoded length of the HMAC signing secret.
const MinKeyBytes = 32

// TokenCodec issues and verifies HS256 identity tokens. It is immutable after
// construction and safe for concurrent use.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenCodec decodes hexSecret into the signing key. A secret that is not
// hex or decodes to fewer than MinKeyBytes yields domain.ErrWeakSigningKey.
func NewTokenCodec(hexSecret string, ttl time.Duration) (*TokenCodec, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexSecret))
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid hex: %v", domain.ErrWeakSigningKey, err)
	}
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("%w: got %d bytes", domain.ErrWeakSigningKey, len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenCodec{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject, valid from now until now+TTL.
func (c *TokenCodec) Issue(subjectID, username string, role domain.Role, now time.Time) (string, error) {
	claims := tokenClaims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks expiry, signature and required claims, in that order. Expiry
// is read from the unverified payload so an expired token reports
// ErrTokenExpired whatever its signature. A token without exp is only
// reported as ErrTokenMissingClaims once its signature has verified.
func (c *TokenCodec) Verify(token string, now time.Time) (*domain.Claims, error) {
	var unverified tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &unverified); err != nil {
		return nil, &domain.TokenError{Kind: domain.ErrTokenMalformed, Cause: err}
	}
	if unverified.ExpiresAt != nil && !now.Before(unverified.ExpiresAt.Time) {
		return nil, &domain.TokenError{Kind: domain.ErrTokenExpired}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	var claims tokenClaims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	}); err != nil {
		return nil, &domain.TokenError{Kind: classify(err), Cause: err}
	}

	if claims.Subject == "" || claims.Username == "" || claims.Role == "" {
		return nil, &domain.TokenError{Kind: domain.ErrTokenMissingClaims}
	}

	out := &domain.Claims{
		SubjectID: claims.Subject,
		Username:  claims.Username,
		Role:      domain.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return domain.ErrTokenMissingClaims
	default:
		return domain.ErrTokenMalformed
	}
}
