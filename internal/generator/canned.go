package generator

import (
	"context"
	"fmt"

	"github.com/anhtnguyen/historylab/internal/domain"
)

// CannedGenerator returns a fixed lesson shape echoing the topic. Used for
// ENV=local so the full flow works without a Gemini key.
type CannedGenerator struct{}

func (g *CannedGenerator) Generate(_ context.Context, req Request) (*domain.LessonContent, error) {
	topic := req.Topic
	return &domain.LessonContent{
		Title:         fmt.Sprintf("A Short History of %s", topic),
		SummaryPoints: []string{"Point one about " + topic, "Point two", "Point three", "Point four", "Point five"},
		Timeline: []domain.TimelineEvent{
			{Year: "1900", Event: "It began."},
			{Year: "1950", Event: "It developed."},
			{Year: "2000", Event: "It concluded."},
		},
		Analysis: domain.AnalysisChart{
			KeyCharacters: []string{"Key figure"},
			Causes:        []string{"Primary cause"},
			Developments:  []string{"Major development"},
			Effects:       []string{"Lasting effect"},
		},
		Storyboard: []domain.StoryboardScene{
			{SceneNumber: 1, VisualDescription: "Opening shot of " + topic, CameraAngle: "wide", Action: "Establishing", Audio: "Ambient", TextOverlay: topic},
		},
		ImagePrompts:    []string{"Illustration of " + topic},
		VoiceOverScript: fmt.Sprintf("Today we explore %s.", topic),
		Quiz: domain.Quiz{
			MultipleChoice: []domain.QuizQuestion{
				{
					Question:           fmt.Sprintf("When did %s begin?", topic),
					Options:            []string{"1900", "1910", "1920", "1930"},
					CorrectAnswerIndex: 0,
					Explanation:        "It began in 1900.",
				},
			},
			Thinking: []domain.ThinkingQuestion{
				{Question: fmt.Sprintf("Why does %s matter today?", topic), AnswerGuide: "Consider its lasting effects."},
			},
		},
		Flashcards: []domain.Flashcard{
			{Front: topic, Back: "A historical topic."},
		},
	}, nil
}
