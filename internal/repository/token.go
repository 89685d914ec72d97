package repository

import (
	"context"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
)

// TokenRepository is the shared store for single-use login tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.LoginToken) error
	FindByID(ctx context.Context, id string) (*domain.LoginToken, error)

	// MarkUsed is a conditional update: it flips used to true only if the
	// token is currently unused, and reports whether this caller won.
	// Concurrent redemptions of the same id see at most one true.
	MarkUsed(ctx context.Context, id string, usedAt time.Time) (bool, error)

	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.LoginToken, error)

	// DeleteExpired removes tokens whose deadline passed before cutoff,
	// returning how many rows went away.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
