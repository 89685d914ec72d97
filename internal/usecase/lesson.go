package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/generator"
	"github.com/anhtnguyen/historylab/internal/metrics"
	"github.com/anhtnguyen/historylab/internal/repository"
)

type LessonUsecase struct {
	lessons       repository.LessonRepository
	users         repository.UserRepository
	gen           generator.Generator
	defaultAPIKey string
}

func NewLessonUsecase(
	lessons repository.LessonRepository,
	users repository.UserRepository,
	gen generator.Generator,
	defaultAPIKey string,
) *LessonUsecase {
	return &LessonUsecase{
		lessons:       lessons,
		users:         users,
		gen:           gen,
		defaultAPIKey: defaultAPIKey,
	}
}

type GenerateInput struct {
	UserID   string
	Topic    string
	Language domain.Language
}

// Generate produces a full lesson package for the topic and persists it.
// The account's admin-issued API key wins over the server default.
func (u *LessonUsecase) Generate(ctx context.Context, input GenerateInput) (*domain.Lesson, error) {
	user, err := u.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	apiKey := user.APIKey
	if apiKey == "" {
		apiKey = u.defaultAPIKey
	}
	if apiKey == "" {
		return nil, domain.ErrNoAPIKey
	}

	start := time.Now()
	content, err := u.gen.Generate(ctx, generator.Request{
		Topic:    input.Topic,
		Language: input.Language,
		APIKey:   apiKey,
	})
	if err != nil {
		metrics.LessonGenerationDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("generate lesson: %w", err)
	}
	metrics.LessonGenerationDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	lesson, err := u.lessons.Create(ctx, &domain.Lesson{
		UserID:   user.ID,
		Topic:    input.Topic,
		Language: input.Language,
		Title:    content.Title,
		Content:  *content,
	})
	if err != nil {
		return nil, fmt.Errorf("store lesson: %w", err)
	}
	return lesson, nil
}

func (u *LessonUsecase) GetByID(ctx context.Context, id, userID string) (*domain.Lesson, error) {
	return u.lessons.FindByID(ctx, id, userID)
}

func (u *LessonUsecase) List(ctx context.Context, userID string) ([]*domain.Lesson, error) {
	return u.lessons.ListByUser(ctx, userID)
}

func (u *LessonUsecase) Delete(ctx context.Context, id, userID string) error {
	return u.lessons.Delete(ctx, id, userID)
}
