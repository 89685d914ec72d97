package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/usecase"
	"github.com/gin-gonic/gin"
)

type tokenRedeemer interface {
	Redeem(ctx context.Context, id string) (*usecase.RedeemResult, error)
}

// QRLoginHandler is the public redemption surface: the URL a QR code scan
// lands on.
type QRLoginHandler struct {
	tokens tokenRedeemer
	logger *slog.Logger
}

func NewQRLoginHandler(tokens tokenRedeemer, logger *slog.Logger) *QRLoginHandler {
	return &QRLoginHandler{
		tokens: tokens,
		logger: logger.With("component", "qr_login_handler"),
	}
}

type redeemResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Name    string `json:"name,omitempty"`
	// LoginURL points back at manual login on any failure outcome.
	LoginURL string `json:"login_url,omitempty"`
}

// GET /qr-login/:id
// Every invocation ends in exactly one terminal outcome.
func (h *QRLoginHandler) Redeem(c *gin.Context) {
	id := c.Param("id")

	result, err := h.tokens.Redeem(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, redeemResponse{
				Status: "not_found", Message: errTokenNotFound, LoginURL: "/login",
			})
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusGone, redeemResponse{
				Status: "expired", Message: errTokenExpired, LoginURL: "/login",
			})
		case errors.Is(err, domain.ErrTokenUsed):
			c.JSON(http.StatusConflict, redeemResponse{
				Status: "already_used", Message: errTokenUsed, LoginURL: "/login",
			})
		case errors.Is(err, domain.ErrTokenAuth):
			c.JSON(http.StatusUnauthorized, redeemResponse{
				Status: "auth_failed", Message: errTokenAuth, LoginURL: "/login",
			})
		default:
			// Transient store or identity failure: the token was not
			// consumed, so a retry is safe.
			h.logger.ErrorContext(c.Request.Context(), "redeem token", "error", err)
			c.JSON(http.StatusServiceUnavailable, redeemResponse{
				Status: "unavailable", Message: errStoreUnavailable, LoginURL: "/login",
			})
		}
		return
	}

	c.JSON(http.StatusOK, redeemResponse{
		Status:  "success",
		Message: "Login successful.",
		Token:   result.SessionToken,
		Name:    result.Name,
	})
}
