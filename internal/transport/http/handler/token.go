package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/qr"
	"github.com/anhtnguyen/historylab/internal/usecase"
	"github.com/gin-gonic/gin"
)

type tokenIssuer interface {
	Issue(ctx context.Context, input usecase.IssueInput) (*usecase.IssueResult, error)
	Get(ctx context.Context, id string) (*domain.LoginToken, error)
	List(ctx context.Context) ([]*domain.LoginToken, error)
	Delete(ctx context.Context, id string) error
	RedemptionURL(id string) string
}

// TokenHandler is the admin-facing side of the QR login flow.
type TokenHandler struct {
	tokens tokenIssuer
	logger *slog.Logger
}

func NewTokenHandler(tokens tokenIssuer, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		logger: logger.With("component", "token_handler"),
	}
}

type issueTokenRequest struct {
	UserID     string `json:"user_id"     binding:"required"`
	Password   string `json:"password"    binding:"required"`
	Name       string `json:"name"`
	TTLSeconds int    `json:"ttl_seconds" binding:"omitempty,min=1"`
	Notify     bool   `json:"notify"`
}

// tokenResponse never echoes the embedded password snapshot.
type tokenResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy string     `json:"created_by"`
	Used      bool       `json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newTokenResponse(t *domain.LoginToken, url string) tokenResponse {
	return tokenResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Email:     t.Email,
		Name:      t.DisplayName(),
		URL:       url,
		CreatedAt: t.CreatedAt,
		CreatedBy: t.CreatedBy,
		Used:      t.Used,
		UsedAt:    t.UsedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

// POST /admin/tokens
func (h *TokenHandler) Issue(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.tokens.Issue(c.Request.Context(), usecase.IssueInput{
		UserID:    req.UserID,
		Password:  req.Password,
		Name:      req.Name,
		CreatedBy: c.GetString("userID"),
		TTL:       time.Duration(req.TTLSeconds) * time.Second,
		Notify:    req.Notify,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidInput.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "issue token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, newTokenResponse(result.Token, result.URL))
}

// GET /admin/tokens
func (h *TokenHandler) List(c *gin.Context) {
	tokens, err := h.tokens.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list tokens", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, newTokenResponse(t, h.tokens.RedemptionURL(t.ID)))
	}
	c.JSON(http.StatusOK, gin.H{"tokens": out})
}

// DELETE /admin/tokens/:id
func (h *TokenHandler) Delete(c *gin.Context) {
	err := h.tokens.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTokenNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /admin/tokens/:id/qr
// Returns the redemption link as a PNG QR code.
func (h *TokenHandler) QRCode(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.tokens.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTokenNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	png, err := qr.EncodePNG(h.tokens.RedemptionURL(id), 0)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "encode qr", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
