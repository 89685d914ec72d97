package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/generator"
	"github.com/anhtnguyen/historylab/internal/usecase"
)

type fakeLessonRepo struct {
	create func(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error)
}

func (r *fakeLessonRepo) Create(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
	return r.create(ctx, lesson)
}

func (r *fakeLessonRepo) FindByID(_ context.Context, _, _ string) (*domain.Lesson, error) {
	panic("not used")
}

func (r *fakeLessonRepo) ListByUser(_ context.Context, _ string) ([]*domain.Lesson, error) {
	panic("not used")
}

func (r *fakeLessonRepo) Delete(_ context.Context, _, _ string) error {
	panic("not used")
}

type fakeGenerator struct {
	generate func(ctx context.Context, req generator.Request) (*domain.LessonContent, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, req generator.Request) (*domain.LessonContent, error) {
	return g.generate(ctx, req)
}

func userRepoWithAPIKey(apiKey string) *fakeUserRepo {
	user := *testUser
	user.APIKey = apiKey
	return &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return &user, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
}

func TestGenerateLesson_AccountKeyWinsOverDefault(t *testing.T) {
	var usedKey string
	gen := &fakeGenerator{
		generate: func(_ context.Context, req generator.Request) (*domain.LessonContent, error) {
			usedKey = req.APIKey
			return &domain.LessonContent{Title: "t"}, nil
		},
	}
	lessons := &fakeLessonRepo{
		create: func(_ context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
			return lesson, nil
		},
	}
	uc := usecase.NewLessonUsecase(lessons, userRepoWithAPIKey("account-key"), gen, "default-key")

	_, err := uc.Generate(context.Background(), usecase.GenerateInput{
		UserID: testUser.ID, Topic: "topic", Language: domain.LanguageEN,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedKey != "account-key" {
		t.Errorf("used key = %q, want the account's own key", usedKey)
	}
}

func TestGenerateLesson_FallsBackToDefaultKey(t *testing.T) {
	var usedKey string
	gen := &fakeGenerator{
		generate: func(_ context.Context, req generator.Request) (*domain.LessonContent, error) {
			usedKey = req.APIKey
			return &domain.LessonContent{Title: "t"}, nil
		},
	}
	lessons := &fakeLessonRepo{
		create: func(_ context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
			return lesson, nil
		},
	}
	uc := usecase.NewLessonUsecase(lessons, userRepoWithAPIKey(""), gen, "default-key")

	if _, err := uc.Generate(context.Background(), usecase.GenerateInput{
		UserID: testUser.ID, Topic: "topic",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedKey != "default-key" {
		t.Errorf("used key = %q, want the server default", usedKey)
	}
}

func TestGenerateLesson_NoKeyAnywhere(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(_ context.Context, _ generator.Request) (*domain.LessonContent, error) {
			t.Fatal("generator called without an api key")
			return nil, nil
		},
	}
	uc := usecase.NewLessonUsecase(&fakeLessonRepo{}, userRepoWithAPIKey(""), gen, "")

	_, err := uc.Generate(context.Background(), usecase.GenerateInput{UserID: testUser.ID, Topic: "topic"})
	if !errors.Is(err, domain.ErrNoAPIKey) {
		t.Errorf("want ErrNoAPIKey, got %v", err)
	}
}

func TestGenerateLesson_PersistsGeneratedContent(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(_ context.Context, _ generator.Request) (*domain.LessonContent, error) {
			return &domain.LessonContent{Title: "Generated Title"}, nil
		},
	}
	var stored *domain.Lesson
	lessons := &fakeLessonRepo{
		create: func(_ context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
			stored = lesson
			return lesson, nil
		},
	}
	uc := usecase.NewLessonUsecase(lessons, userRepoWithAPIKey("k"), gen, "")

	lesson, err := uc.Generate(context.Background(), usecase.GenerateInput{
		UserID: testUser.ID, Topic: "topic", Language: domain.LanguageVI,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("lesson not persisted")
	}
	if stored.Title != "Generated Title" || stored.UserID != testUser.ID || stored.Language != domain.LanguageVI {
		t.Errorf("stored lesson = %+v", stored)
	}
	if lesson.Title != "Generated Title" {
		t.Errorf("returned title = %q", lesson.Title)
	}
}

func TestGenerateLesson_GeneratorFailureIsNotPersisted(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(_ context.Context, _ generator.Request) (*domain.LessonContent, error) {
			return nil, errors.New("upstream 500")
		},
	}
	lessons := &fakeLessonRepo{
		create: func(_ context.Context, _ *domain.Lesson) (*domain.Lesson, error) {
			t.Fatal("failed generation must not be persisted")
			return nil, nil
		},
	}
	uc := usecase.NewLessonUsecase(lessons, userRepoWithAPIKey("k"), gen, "")

	if _, err := uc.Generate(context.Background(), usecase.GenerateInput{UserID: testUser.ID, Topic: "t"}); err == nil {
		t.Fatal("want error when generation fails")
	}
}
