package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

const tokenColumns = `id, user_id, email, password, name, created_at, created_by, used, used_at, expires_at`

func (r *TokenRepository) Create(ctx context.Context, token *domain.LoginToken) error {
	// Ids carry enough entropy that collisions are not expected; key
	// identity is the only uniqueness the store enforces.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_tokens (id, user_id, email, password, name, created_at, created_by, used, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			user_id    = EXCLUDED.user_id,
			email      = EXCLUDED.email,
			password   = EXCLUDED.password,
			name       = EXCLUDED.name,
			created_at = EXCLUDED.created_at,
			created_by = EXCLUDED.created_by,
			used       = EXCLUDED.used,
			used_at    = NULL,
			expires_at = EXCLUDED.expires_at`,
		token.ID, token.UserID, token.Email, token.Password, token.Name,
		token.CreatedAt, token.CreatedBy, token.Used, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create login token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByID(ctx context.Context, id string) (*domain.LoginToken, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM login_tokens WHERE id = $1`, id)
	return scanToken(row)
}

// MarkUsed flips used to true only if the token is still unused. Under
// concurrent redemption of the same id the WHERE clause lets exactly one
// caller through; the rest see won == false.
func (r *TokenRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE login_tokens
		SET    used = TRUE, used_at = $2
		WHERE  id = $1 AND used = FALSE`,
		id, usedAt,
	)
	if err != nil {
		return false, fmt.Errorf("mark token used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM login_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete login token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (r *TokenRepository) List(ctx context.Context) ([]*domain.LoginToken, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tokenColumns+` FROM login_tokens ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list login tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.LoginToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM login_tokens WHERE expires_at IS NOT NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanToken(row rowScanner) (*domain.LoginToken, error) {
	var t domain.LoginToken
	err := row.Scan(
		&t.ID, &t.UserID, &t.Email, &t.Password, &t.Name,
		&t.CreatedAt, &t.CreatedBy, &t.Used, &t.UsedAt, &t.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("scan login token: %w", err)
	}
	return &t, nil
}
