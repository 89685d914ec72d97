package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
)

func validLessonJSON() string {
	content := domain.LessonContent{
		Title:         "The Battle of Bach Dang",
		SummaryPoints: []string{"a", "b", "c", "d", "e"},
		Timeline:      []domain.TimelineEvent{{Year: "938", Event: "The battle."}},
		Analysis: domain.AnalysisChart{
			KeyCharacters: []string{"Ngo Quyen"},
			Causes:        []string{"cause"},
			Developments:  []string{"development"},
			Effects:       []string{"effect"},
		},
		Storyboard: []domain.StoryboardScene{
			{SceneNumber: 1, VisualDescription: "River", CameraAngle: "wide", Action: "Tide falls", Audio: "Drums", TextOverlay: "938 AD"},
		},
		ImagePrompts:    []string{"prompt"},
		VoiceOverScript: "script",
		Quiz: domain.Quiz{
			MultipleChoice: []domain.QuizQuestion{{Question: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: 0, Explanation: "e"}},
			Thinking:       []domain.ThinkingQuestion{{Question: "q", AnswerGuide: "g"}},
		},
		Flashcards: []domain.Flashcard{{Front: "f", Back: "b"}},
	}
	raw, _ := json.Marshal(content)
	return string(raw)
}

func geminiReply(text string) string {
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(reply)
	return string(raw)
}

func testGenerator(srv *httptest.Server) *GeminiGenerator {
	return &GeminiGenerator{
		model:   "gemini-2.5-flash",
		baseURL: srv.URL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGenerate_ParsesSchemaConstrainedReply(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply(validLessonJSON())))
	}))
	defer srv.Close()

	content, err := testGenerator(srv).Generate(context.Background(), Request{
		Topic:    "Battle of Bach Dang",
		Language: domain.LanguageVI,
		APIKey:   "key-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "key-123" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("responseMimeType = %q", gotBody.GenerationConfig.ResponseMIMEType)
	}
	if len(gotBody.GenerationConfig.ResponseSchema) == 0 {
		t.Error("request carries no response schema")
	}
	if gotBody.SystemInstruction == nil ||
		!strings.Contains(gotBody.SystemInstruction.Parts[0].Text, "VIETNAMESE") {
		t.Error("system instruction does not pin the output language")
	}

	if content.Title != "The Battle of Bach Dang" {
		t.Errorf("title = %q", content.Title)
	}
	if len(content.Quiz.MultipleChoice) != 1 {
		t.Errorf("quiz questions = %d, want 1", len(content.Quiz.MultipleChoice))
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"API key not valid"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testGenerator(srv).Generate(context.Background(), Request{Topic: "t", APIKey: "bad"})
	if err == nil {
		t.Fatal("want error on non-200 reply")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error does not surface the upstream status: %v", err)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	if _, err := testGenerator(srv).Generate(context.Background(), Request{Topic: "t", APIKey: "k"}); err == nil {
		t.Fatal("want error on empty candidates")
	}
}

func TestGenerate_MalformedLessonPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(geminiReply(`{"title":""}`)))
	}))
	defer srv.Close()

	if _, err := testGenerator(srv).Generate(context.Background(), Request{Topic: "t", APIKey: "k"}); err == nil {
		t.Fatal("want error when the reply lacks a title")
	}
}

func TestNew_LocalUsesCannedGenerator(t *testing.T) {
	if _, ok := New("local", "gemini-2.5-flash").(*CannedGenerator); !ok {
		t.Error("ENV=local should not call Gemini")
	}
	if _, ok := New("production", "gemini-2.5-flash").(*GeminiGenerator); !ok {
		t.Error("non-local env should use Gemini")
	}
}
