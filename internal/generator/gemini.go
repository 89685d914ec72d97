package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiGenerator calls the Gemini generateContent endpoint with a JSON
// response schema so the reply parses directly into domain.LessonContent.
type GeminiGenerator struct {
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiGenerator(model string) *GeminiGenerator {
	return &GeminiGenerator{
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*domain.LessonContent, error) {
	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt(req.Language)}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: "Create a history lesson package about: " + req.Topic}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   json.RawMessage(lessonSchema),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var content domain.LessonContent
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &content); err != nil {
		return nil, fmt.Errorf("decode lesson content: %w", err)
	}
	if content.Title == "" {
		return nil, fmt.Errorf("lesson content missing title")
	}
	return &content, nil
}

func systemPrompt(lang domain.Language) string {
	langInstruction := "IMPORTANT: ALL CONTENT MUST BE GENERATED IN ENGLISH."
	if lang == domain.LanguageVI {
		langInstruction = "IMPORTANT: ALL CONTENT MUST BE GENERATED IN VIETNAMESE."
	}
	return `You are an expert AI History Tutor and Content Generator, specializing in Vietnamese history but capable of teaching global history with equal precision.
Your goal is to create a complete educational package for high school students.

` + langInstruction + `

Tone: Accurate, inspiring, clear, and educational.
Context: If the user inputs a Vietnamese historical event, ensure deep cultural accuracy and respect.`
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// lessonSchema constrains the completion to the exact LessonContent shape.
const lessonSchema = `{
  "type": "OBJECT",
  "properties": {
    "title": {"type": "STRING", "description": "A catchy title for the history lesson"},
    "summaryPoints": {"type": "ARRAY", "items": {"type": "STRING"}, "description": "5 concise and accurate main points summarizing the event"},
    "timeline": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {"year": {"type": "STRING"}, "event": {"type": "STRING"}},
        "required": ["year", "event"]
      },
      "description": "Chronological timeline of the event"
    },
    "analysis": {
      "type": "OBJECT",
      "properties": {
        "keyCharacters": {"type": "ARRAY", "items": {"type": "STRING"}},
        "causes": {"type": "ARRAY", "items": {"type": "STRING"}},
        "developments": {"type": "ARRAY", "items": {"type": "STRING"}},
        "effects": {"type": "ARRAY", "items": {"type": "STRING"}}
      },
      "required": ["keyCharacters", "causes", "developments", "effects"],
      "description": "Character-Cause-Development-Effect analysis chart"
    },
    "storyboard": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "sceneNumber": {"type": "INTEGER"},
          "visualDescription": {"type": "STRING"},
          "cameraAngle": {"type": "STRING"},
          "action": {"type": "STRING"},
          "audio": {"type": "STRING"},
          "textOverlay": {"type": "STRING"}
        },
        "required": ["sceneNumber", "visualDescription", "cameraAngle", "action", "audio", "textOverlay"]
      },
      "description": "5-7 scene video storyboard"
    },
    "imagePrompts": {"type": "ARRAY", "items": {"type": "STRING"}, "description": "10 educational motion-graphic image prompts for asset creation"},
    "voiceOverScript": {"type": "STRING", "description": "A 45-60 second inspiring and accurate voice-over script"},
    "quiz": {
      "type": "OBJECT",
      "properties": {
        "multipleChoice": {
          "type": "ARRAY",
          "items": {
            "type": "OBJECT",
            "properties": {
              "question": {"type": "STRING"},
              "options": {"type": "ARRAY", "items": {"type": "STRING"}},
              "correctAnswerIndex": {"type": "INTEGER"},
              "explanation": {"type": "STRING"}
            },
            "required": ["question", "options", "correctAnswerIndex", "explanation"]
          }
        },
        "thinking": {
          "type": "ARRAY",
          "items": {
            "type": "OBJECT",
            "properties": {"question": {"type": "STRING"}, "answerGuide": {"type": "STRING"}},
            "required": ["question", "answerGuide"]
          }
        }
      },
      "required": ["multipleChoice", "thinking"]
    },
    "flashcards": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {"front": {"type": "STRING"}, "back": {"type": "STRING"}},
        "required": ["front", "back"]
      },
      "description": "10 flashcards for memorization"
    }
  },
  "required": ["title", "summaryPoints", "timeline", "analysis", "storyboard", "imagePrompts", "voiceOverScript", "quiz", "flashcards"]
}`
