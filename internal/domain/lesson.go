package domain

import (
	"errors"
	"time"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrNoAPIKey       = errors.New("no generative API key configured for this account")
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageVI Language = "vi"
)

// Lesson is one generated lesson package, owned by the requesting account.
type Lesson struct {
	ID        string
	UserID    string
	Topic     string
	Language  Language
	Title     string
	Content   LessonContent
	CreatedAt time.Time
}

// LessonContent is the schema-constrained payload returned by the
// generative service. Stored verbatim as jsonb.
type LessonContent struct {
	Title           string            `json:"title"`
	SummaryPoints   []string          `json:"summaryPoints"`
	Timeline        []TimelineEvent   `json:"timeline"`
	Analysis        AnalysisChart     `json:"analysis"`
	Storyboard      []StoryboardScene `json:"storyboard"`
	ImagePrompts    []string          `json:"imagePrompts"`
	VoiceOverScript string            `json:"voiceOverScript"`
	Quiz            Quiz              `json:"quiz"`
	Flashcards      []Flashcard       `json:"flashcards"`
}

type TimelineEvent struct {
	Year  string `json:"year"`
	Event string `json:"event"`
}

// AnalysisChart is the character-cause-development-effect breakdown.
type AnalysisChart struct {
	KeyCharacters []string `json:"keyCharacters"`
	Causes        []string `json:"causes"`
	Developments  []string `json:"developments"`
	Effects       []string `json:"effects"`
}

type StoryboardScene struct {
	SceneNumber       int    `json:"sceneNumber"`
	VisualDescription string `json:"visualDescription"`
	CameraAngle       string `json:"cameraAngle"`
	Action            string `json:"action"`
	Audio             string `json:"audio"`
	TextOverlay       string `json:"textOverlay"`
}

type Quiz struct {
	MultipleChoice []QuizQuestion     `json:"multipleChoice"`
	Thinking       []ThinkingQuestion `json:"thinking"`
}

type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

type ThinkingQuestion struct {
	Question    string `json:"question"`
	AnswerGuide string `json:"answerGuide"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
