package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

func (r *LessonRepository) Create(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
	content, err := json.Marshal(lesson.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal lesson content: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO lessons (user_id, topic, language, title, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, topic, language, title, content, created_at`,
		lesson.UserID, lesson.Topic, lesson.Language, lesson.Title, content,
	)
	return scanLesson(row)
}

func (r *LessonRepository) FindByID(ctx context.Context, id, userID string) (*domain.Lesson, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, topic, language, title, content, created_at
		FROM lessons
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanLesson(row)
}

func (r *LessonRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Lesson, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, topic, language, title, content, created_at
		FROM lessons
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*domain.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *LessonRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM lessons WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}

func scanLesson(row rowScanner) (*domain.Lesson, error) {
	var l domain.Lesson
	var content []byte
	err := row.Scan(&l.ID, &l.UserID, &l.Topic, &l.Language, &l.Title, &content, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, fmt.Errorf("scan lesson: %w", err)
	}
	if err := json.Unmarshal(content, &l.Content); err != nil {
		return nil, fmt.Errorf("unmarshal lesson content: %w", err)
	}
	return &l, nil
}
