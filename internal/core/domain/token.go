package domain

import (
	"errors"
	"time"
)

// Claims are the identity fields carried inside a signed token.
type Claims struct {
	SubjectID string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenMissingClaims    = errors.New("token missing required claims")
)

// TokenError reports why a token failed verification. Kind is one of the
// ErrToken* sentinels; Cause holds the underlying parser error, if any.
type TokenError struct {
	Kind  error
	Cause error
}

func (e *TokenError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Cause.Error()
}

func (e *TokenError) Is(target error) bool {
	return target == e.Kind
}

func (e *TokenError) Unwrap() error {
	return e.Cause
}

// TokenFailureReason returns a short label for a verification error, used in
// logs and metrics.
func TokenFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrTokenMissingClaims):
		return "missing_claims"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
