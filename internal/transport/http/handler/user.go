package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/repository"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes the admin account listing and per-account API key
// management.
type UserHandler struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserHandler(users repository.UserRepository, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	HasAPIKey bool      `json:"has_api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			HasAPIKey: u.APIKey != "",
			CreatedAt: u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

type updateAPIKeyRequest struct {
	// Empty clears the key, so the account falls back to the server default.
	APIKey string `json:"api_key"`
}

// PUT /admin/users/:id/api-key
func (h *UserHandler) UpdateAPIKey(c *gin.Context) {
	var req updateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.users.UpdateAPIKey(c.Request.Context(), c.Param("id"), req.APIKey)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "update api key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}
