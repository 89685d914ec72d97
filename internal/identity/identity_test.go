package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/identity"
)

type fakeUserRepo struct {
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ string) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) UpdateAPIKey(_ context.Context, _, _ string) error {
	panic("not used")
}

func repoWithUser(t *testing.T, email, password string) *fakeUserRepo {
	t.Helper()
	hash, err := identity.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{ID: "u1", Email: email, PasswordHash: hash, Role: domain.RoleUser}
	return &fakeUserRepo{
		findByEmail: func(_ context.Context, e string) (*domain.User, error) {
			if e == email {
				return user, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
}

func TestSignIn_ValidCredentials(t *testing.T) {
	provider := identity.NewLocalProvider(repoWithUser(t, "a@example.com", "secret-pw"))

	user, err := provider.SignIn(context.Background(), "a@example.com", "secret-pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user id = %q, want u1", user.ID)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	provider := identity.NewLocalProvider(repoWithUser(t, "a@example.com", "secret-pw"))

	_, err := provider.SignIn(context.Background(), "a@example.com", "not-it")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestSignIn_UnknownEmail_IndistinguishableFromWrongPassword(t *testing.T) {
	provider := identity.NewLocalProvider(repoWithUser(t, "a@example.com", "secret-pw"))

	_, err := provider.SignIn(context.Background(), "nobody@example.com", "secret-pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}
