package ports

import (
	"time"

	"github.com/examready/identity-api/internal/core/domain"
)

// PasswordHasher wraps a one-way password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Any malformed hash is a mismatch.
	Verify(hash, password string) bool
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(subjectID, username string, role domain.Role, now time.Time) (string, error)
}

// TokenVerifier checks a signed token and returns its claims. Errors are
// *domain.TokenError values.
type TokenVerifier interface {
	Verify(token string, now time.Time) (*domain.Claims, error)
}
