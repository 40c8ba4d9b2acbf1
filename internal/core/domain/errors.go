package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	// ErrWeakSigningKey is fatal at startup: the service must not run with a
	// signing secret shorter than 32 bytes.
	ErrWeakSigningKey = errors.New("signing key must decode to at least 32 bytes")
)

// DuplicateUsernameError is returned by registration when the username is
// already taken, whether detected by the lookup or by the store's unique
// constraint. It matches ErrUserExists under errors.Is.
type DuplicateUsernameError struct {
	Username string
}

func (e *DuplicateUsernameError) Error() string {
	return fmt.Sprintf("username '%s' already exists", e.Username)
}

func (e *DuplicateUsernameError) Is(target error) bool {
	return target == ErrUserExists
}
