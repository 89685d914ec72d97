// Package pdf renders a lesson package into a printable document.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// Section selects which parts of the lesson go into the export.
type Section string

const (
	SectionOverview   Section = "overview"
	SectionAnalysis   Section = "analysis"
	SectionStoryboard Section = "storyboard"
	SectionAssets     Section = "assets"
	SectionQuiz       Section = "quiz"
)

var allSections = []Section{SectionOverview, SectionAnalysis, SectionStoryboard, SectionAssets, SectionQuiz}

// ParseSections parses a comma-separated section list. Empty input selects
// every section.
func ParseSections(raw string) ([]Section, error) {
	if strings.TrimSpace(raw) == "" {
		return allSections, nil
	}
	var sections []Section
	for _, part := range strings.Split(raw, ",") {
		s := Section(strings.TrimSpace(strings.ToLower(part)))
		switch s {
		case SectionOverview, SectionAnalysis, SectionStoryboard, SectionAssets, SectionQuiz:
			sections = append(sections, s)
		default:
			return nil, fmt.Errorf("unknown pdf section %q", part)
		}
	}
	return sections, nil
}

// Renderer produces lesson PDFs. FontPath may point to a TTF with full
// Vietnamese glyph coverage; without it the built-in Helvetica is used and
// some diacritics degrade. Safe for concurrent use.
type Renderer struct {
	FontPath string
}

func NewRenderer(fontPath string) *Renderer {
	return &Renderer{FontPath: fontPath}
}

func (r *Renderer) Render(lesson *domain.Lesson, sections []Section) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(lesson.Title, true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)

	font := "Helvetica"
	if r.FontPath != "" {
		font = "LessonFont"
		doc.AddUTF8Font(font, "", r.FontPath)
		doc.AddUTF8Font(font, "B", r.FontPath)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string {
		if r.FontPath != "" {
			return s
		}
		return tr(s)
	}

	w := &writer{doc: doc, font: font, text: text}

	doc.AddPage()
	doc.SetFont(font, "B", 18)
	doc.MultiCell(0, 10, text(lesson.Title), "", "C", false)
	doc.Ln(4)

	content := lesson.Content
	for _, section := range sections {
		switch section {
		case SectionOverview:
			w.heading(w.text("Overview"))
			w.bullets(content.SummaryPoints)
			w.heading(w.text("Timeline"))
			for _, ev := range content.Timeline {
				w.paragraph(w.text(ev.Year+" — "+ev.Event))
			}
		case SectionAnalysis:
			w.heading(w.text("Analysis"))
			w.subheading(w.text("Key Characters"))
			w.bullets(content.Analysis.KeyCharacters)
			w.subheading(w.text("Causes"))
			w.bullets(content.Analysis.Causes)
			w.subheading(w.text("Developments"))
			w.bullets(content.Analysis.Developments)
			w.subheading(w.text("Effects"))
			w.bullets(content.Analysis.Effects)
		case SectionStoryboard:
			w.heading(w.text("Storyboard"))
			for _, scene := range content.Storyboard {
				w.subheading(w.text(fmt.Sprintf("Scene %d", scene.SceneNumber)))
				w.paragraph(w.text("Visual: "+scene.VisualDescription))
				w.paragraph(w.text("Camera: "+scene.CameraAngle))
				w.paragraph(w.text("Action: "+scene.Action))
				w.paragraph(w.text("Audio: "+scene.Audio))
				if scene.TextOverlay != "" {
					w.paragraph(w.text("Overlay: "+scene.TextOverlay))
				}
			}
		case SectionAssets:
			w.heading(w.text("Image Prompts"))
			w.bullets(content.ImagePrompts)
			w.heading(w.text("Voice-over Script"))
			w.paragraph(w.text(content.VoiceOverScript))
		case SectionQuiz:
			w.heading(w.text("Quiz"))
			for i, q := range content.Quiz.MultipleChoice {
				w.subheading(w.text(fmt.Sprintf("Question %d", i+1)))
				w.paragraph(w.text(q.Question))
				for j, opt := range q.Options {
					marker := "  "
					if j == q.CorrectAnswerIndex {
						marker = "* "
					}
					w.paragraph(w.text(fmt.Sprintf("%s%c) %s", marker, 'A'+j, opt)))
				}
				w.paragraph(w.text("Explanation: "+q.Explanation))
			}
			if len(content.Quiz.Thinking) > 0 {
				w.heading(w.text("Thinking Questions"))
				for _, q := range content.Quiz.Thinking {
					w.paragraph(w.text(q.Question))
					w.paragraph(w.text("Guide: "+q.AnswerGuide))
				}
			}
			if len(content.Flashcards) > 0 {
				w.heading(w.text("Flashcards"))
				for _, fc := range content.Flashcards {
					w.paragraph(w.text(fc.Front+" — "+fc.Back))
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writer bundles per-render state so the Renderer itself stays immutable.
type writer struct {
	doc  *gofpdf.Fpdf
	font string
	text func(string) string
}

func (w *writer) heading(s string) {
	w.doc.Ln(3)
	w.doc.SetFont(w.font, "B", 14)
	w.doc.MultiCell(0, 8, s, "", "L", false)
	w.doc.Ln(1)
}

func (w *writer) subheading(s string) {
	w.doc.SetFont(w.font, "B", 11)
	w.doc.MultiCell(0, 6, s, "", "L", false)
}

func (w *writer) paragraph(s string) {
	w.doc.SetFont(w.font, "", 11)
	w.doc.MultiCell(0, 6, s, "", "L", false)
}

func (w *writer) bullets(items []string) {
	w.doc.SetFont(w.font, "", 11)
	for _, item := range items {
		w.doc.MultiCell(0, 6, w.text("- "+item), "", "L", false)
	}
}
