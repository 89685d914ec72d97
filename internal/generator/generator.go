// Package generator produces the structured lesson package for a topic.
// The real implementation calls the Gemini REST API with a response schema;
// local development uses a canned generator so no key is needed.
package generator

import (
	"context"

	"github.com/anhtnguyen/historylab/internal/domain"
)

type Request struct {
	Topic    string
	Language domain.Language
	// APIKey is resolved per request: the account's admin-issued key,
	// falling back to the server default.
	APIKey string
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*domain.LessonContent, error)
}

// New returns the canned generator for ENV=local, Gemini otherwise.
func New(env, model string) Generator {
	if env == "local" {
		return &CannedGenerator{}
	}
	return NewGeminiGenerator(model)
}
