package repository

import (
	"context"

	"github.com/anhtnguyen/historylab/internal/domain"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error)
	FindByID(ctx context.Context, id, userID string) (*domain.Lesson, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Lesson, error)
	Delete(ctx context.Context, id, userID string) error
}
