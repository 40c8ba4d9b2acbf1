package domain

import "time"

// Role is the single coarse role carried by a user and its tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AuthorityPrefix is prepended to a role name to form its authority label.
const AuthorityPrefix = "ROLE_"

// Authority returns the authority label derived from the role, e.g. ROLE_USER.
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User models a registered identity.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IdentityContext is the per-request identity bound by the authentication
// middleware. It is never persisted or shared between requests.
type IdentityContext struct {
	SubjectID   string   `json:"subjectId"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// NewIdentityContext builds the request identity from verified token claims.
func NewIdentityContext(c *Claims) *IdentityContext {
	return &IdentityContext{
		SubjectID:   c.SubjectID,
		Username:    c.Username,
		Authorities: []string{c.Role.Authority()},
	}
}

// HasAuthority reports whether the identity carries the given authority.
func (ic *IdentityContext) HasAuthority(authority string) bool {
	if ic == nil {
		return false
	}
	for _, a := range ic.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
