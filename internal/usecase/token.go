package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/email"
	"github.com/anhtnguyen/historylab/internal/identity"
	"github.com/anhtnguyen/historylab/internal/metrics"
	"github.com/anhtnguyen/historylab/internal/repository"
)

// TokenUsecase issues and redeems single-use QR login tokens.
type TokenUsecase struct {
	tokens   repository.TokenRepository
	users    repository.UserRepository
	provider identity.Provider
	email    email.Sender
	logger   *slog.Logger
	jwtKey   []byte
	jwtTTL   time.Duration
	baseURL  string
}

func NewTokenUsecase(
	tokens repository.TokenRepository,
	users repository.UserRepository,
	provider identity.Provider,
	emailSender email.Sender,
	logger *slog.Logger,
	jwtKey []byte,
	baseURL string,
) *TokenUsecase {
	return &TokenUsecase{
		tokens:   tokens,
		users:    users,
		provider: provider,
		email:    emailSender,
		logger:   logger.With("component", "token_usecase"),
		jwtKey:   jwtKey,
		jwtTTL:   defaultSessionTTL,
		baseURL:  baseURL,
	}
}

type IssueInput struct {
	UserID string
	// Password is the plaintext credential snapshot embedded in the token.
	// The admin asserts it matches the account; this operation does not
	// verify it. A later password change makes the token stale.
	Password  string
	Name      string
	CreatedBy string
	TTL       time.Duration
	// Notify sends the redemption link to the account's email.
	Notify bool
}

type IssueResult struct {
	Token *domain.LoginToken
	URL   string
}

// Issue creates a login token bound to an existing account and returns the
// shareable redemption URL. The only persisted side effect is one new row.
func (u *TokenUsecase) Issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	if input.UserID == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := u.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	id, err := newTokenID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &domain.LoginToken{
		ID:        id,
		UserID:    user.ID,
		Email:     user.Email,
		Password:  input.Password,
		Name:      input.Name,
		CreatedAt: now,
		CreatedBy: input.CreatedBy,
		Used:      false,
	}
	if input.TTL > 0 {
		expiresAt := now.Add(input.TTL)
		token.ExpiresAt = &expiresAt
	}

	if err := u.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store login token: %w", err)
	}
	metrics.TokensIssuedTotal.Inc()

	url := u.baseURL + "/qr-login/" + id

	if input.Notify {
		subject := "Your one-tap sign-in link"
		body := fmt.Sprintf(
			`<p>Scan the QR code or open the link below to sign in:</p><p><a href="%s">%s</a></p>`,
			url, url,
		)
		// The token is already persisted; a failed email is not worth
		// rolling it back for. The admin still sees the link.
		if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
			u.logger.ErrorContext(ctx, "send login link email", "user_id", user.ID, "error", err)
		}
	}

	return &IssueResult{Token: token, URL: url}, nil
}

type RedeemResult struct {
	SessionToken string
	Name         string
	User         *domain.User
}

// Redeem walks the token through its single state transition:
// lookup, expiry check, used check, sign-in, then the conditional MarkUsed.
// Exactly one terminal outcome is reached per call, and at most one caller
// ever gets a session out of a given id.
func (u *TokenUsecase) Redeem(ctx context.Context, id string) (*RedeemResult, error) {
	outcome := "error"
	defer func() {
		metrics.TokenRedemptionsTotal.WithLabelValues(outcome).Inc()
	}()

	token, err := u.tokens.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			outcome = "not_found"
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find login token: %w", err)
	}

	now := time.Now()
	if token.Expired(now) {
		outcome = "expired"
		return nil, domain.ErrTokenExpired
	}
	if token.Used {
		outcome = "already_used"
		return nil, domain.ErrTokenUsed
	}

	// Authenticate before consuming the token, so a credential mismatch
	// (stale password snapshot) leaves it redeemable after reissue.
	user, err := u.provider.SignIn(ctx, token.Email, token.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			outcome = "auth_failed"
			return nil, domain.ErrTokenAuth
		}
		return nil, fmt.Errorf("sign in with token credentials: %w", err)
	}

	won, err := u.tokens.MarkUsed(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("mark token used: %w", err)
	}
	if !won {
		// A concurrent redemption got there first.
		outcome = "already_used"
		return nil, domain.ErrTokenUsed
	}

	sessionToken, err := signSessionJWT(u.jwtKey, u.jwtTTL, user)
	if err != nil {
		return nil, err
	}

	outcome = "success"
	return &RedeemResult{
		SessionToken: sessionToken,
		Name:         token.DisplayName(),
		User:         user,
	}, nil
}

func (u *TokenUsecase) Get(ctx context.Context, id string) (*domain.LoginToken, error) {
	return u.tokens.FindByID(ctx, id)
}

func (u *TokenUsecase) List(ctx context.Context) ([]*domain.LoginToken, error) {
	return u.tokens.List(ctx)
}

func (u *TokenUsecase) Delete(ctx context.Context, id string) error {
	return u.tokens.Delete(ctx, id)
}

// RedemptionURL rebuilds the public link for an existing token id.
func (u *TokenUsecase) RedemptionURL(id string) string {
	return u.baseURL + "/qr-login/" + id
}

// newTokenID returns an unguessable token id: 96 bits from crypto/rand plus
// a base-36 timestamp component against same-instant collisions.
func newTokenID() (string, error) {
	raw := make([]byte, 12)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	return hex.EncodeToString(raw) + strconv.FormatInt(time.Now().UnixNano(), 36), nil
}
