// Package identity is the only place a raw password can be exchanged for
// an authenticated account. Both interactive login and QR token redemption
// go through SignIn.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
}

type LocalProvider struct {
	users repository.UserRepository
}

func NewLocalProvider(users repository.UserRepository) *LocalProvider {
	return &LocalProvider{users: users}
}

// SignIn resolves the account by email and checks the password against its
// bcrypt hash. A missing account and a wrong password are indistinguishable
// to the caller.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// HashPassword produces a bcrypt hash for account creation.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
