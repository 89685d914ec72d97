package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/identity"
	"github.com/anhtnguyen/historylab/internal/repository"
)

type AuthUsecase struct {
	users    repository.UserRepository
	provider identity.Provider
	jwtKey   []byte
	jwtTTL   time.Duration
}

func NewAuthUsecase(users repository.UserRepository, provider identity.Provider, jwtKey []byte) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		provider: provider,
		jwtKey:   jwtKey,
		jwtTTL:   defaultSessionTTL,
	}
}

type Session struct {
	Token string
	User  *domain.User
}

// Register creates a new account with role "user" and signs it in.
func (u *AuthUsecase) Register(ctx context.Context, email, password string) (*Session, error) {
	hash, err := identity.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := u.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u.newSession(user)
}

// Login authenticates the credentials through the identity provider.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := u.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return u.newSession(user)
}

func (u *AuthUsecase) newSession(user *domain.User) (*Session, error) {
	token, err := signSessionJWT(u.jwtKey, u.jwtTTL, user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
