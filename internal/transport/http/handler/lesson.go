package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/pdf"
	"github.com/anhtnguyen/historylab/internal/usecase"
	"github.com/gin-gonic/gin"
)

type lessonUsecaser interface {
	Generate(ctx context.Context, input usecase.GenerateInput) (*domain.Lesson, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Lesson, error)
	List(ctx context.Context, userID string) ([]*domain.Lesson, error)
	Delete(ctx context.Context, id, userID string) error
}

type LessonHandler struct {
	lessonUsecase lessonUsecaser
	renderer      *pdf.Renderer
	logger        *slog.Logger
}

func NewLessonHandler(lessonUsecase lessonUsecaser, renderer *pdf.Renderer, logger *slog.Logger) *LessonHandler {
	return &LessonHandler{
		lessonUsecase: lessonUsecase,
		renderer:      renderer,
		logger:        logger.With("component", "lesson_handler"),
	}
}

type generateLessonRequest struct {
	Topic    string `json:"topic"    binding:"required,min=2,max=200"`
	Language string `json:"language" binding:"omitempty,oneof=en vi"`
}

type lessonSummaryResponse struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Language  string    `json:"language"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type lessonResponse struct {
	lessonSummaryResponse
	Content domain.LessonContent `json:"content"`
}

func newLessonSummary(l *domain.Lesson) lessonSummaryResponse {
	return lessonSummaryResponse{
		ID:        l.ID,
		Topic:     l.Topic,
		Language:  string(l.Language),
		Title:     l.Title,
		CreatedAt: l.CreatedAt,
	}
}

// POST /lessons
func (h *LessonHandler) Generate(c *gin.Context) {
	var req generateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	language := domain.Language(req.Language)
	if language == "" {
		language = domain.LanguageEN
	}

	lesson, err := h.lessonUsecase.Generate(c.Request.Context(), usecase.GenerateInput{
		UserID:   c.GetString("userID"),
		Topic:    req.Topic,
		Language: language,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoAPIKey) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": errNoAPIKey})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "generate lesson", "topic", req.Topic, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Lesson generation failed, please try again"})
		return
	}

	c.JSON(http.StatusCreated, lessonResponse{
		lessonSummaryResponse: newLessonSummary(lesson),
		Content:               lesson.Content,
	})
}

// GET /lessons
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.lessonUsecase.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list lessons", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]lessonSummaryResponse, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, newLessonSummary(l))
	}
	c.JSON(http.StatusOK, gin.H{"lessons": out})
}

// GET /lessons/:id
func (h *LessonHandler) GetByID(c *gin.Context) {
	lesson, err := h.lessonUsecase.GetByID(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errLessonNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get lesson", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, lessonResponse{
		lessonSummaryResponse: newLessonSummary(lesson),
		Content:               lesson.Content,
	})
}

// DELETE /lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	err := h.lessonUsecase.Delete(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errLessonNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete lesson", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /lessons/:id/pdf?sections=overview,analysis,storyboard,assets,quiz
func (h *LessonHandler) ExportPDF(c *gin.Context) {
	sections, err := pdf.ParseSections(c.Query("sections"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.lessonUsecase.GetByID(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errLessonNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get lesson for pdf", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out, err := h.renderer.Render(lesson, sections)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "render lesson pdf", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="lesson-%s.pdf"`, lesson.ID))
	c.Data(http.StatusOK, "application/pdf", out)
}
