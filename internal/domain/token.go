package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrTokenNotFound = errors.New("login token not found")
	ErrTokenExpired  = errors.New("login token expired")
	ErrTokenUsed     = errors.New("login token already used")
	ErrTokenAuth     = errors.New("login token credentials rejected")
	ErrInvalidInput  = errors.New("invalid input")
)

// LoginToken is a single-use bearer credential. Whoever holds the id can
// redeem it once for an authenticated session of the target account.
//
// Email and Password are point-in-time snapshots taken at issuance. If the
// account's real password changes afterwards, redemption fails until an
// admin issues a fresh token.
type LoginToken struct {
	ID        string
	UserID    string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	CreatedBy string
	Used      bool
	UsedAt    *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token's optional deadline has passed.
func (t *LoginToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// DisplayName returns the token's label, falling back to the local part
// of the denormalized email.
func (t *LoginToken) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if at := strings.Index(t.Email, "@"); at > 0 {
		return t.Email[:at]
	}
	return t.Email
}
