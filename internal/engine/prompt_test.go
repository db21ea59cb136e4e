package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

func TestRenderPrompt_TitleAndPreviousOutput(t *testing.T) {
	q := &domain.Question{Title: "T"}

	got := RenderPrompt("{{question.title}} - {{previous_output}}", q, "P")

	if got != "T - P" {
		t.Errorf("expected %q, got %q", "T - P", got)
	}
}

func TestRenderPrompt_AllPlaceholders(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	q := &domain.Question{
		ID:        id,
		Title:     "Help",
		Content:   "How?",
		Category:  "go",
		Status:    domain.QuestionStatusOpen,
		CreatedAt: created,
	}

	tests := []struct {
		tmpl string
		want string
	}{
		{"{{question.id}}", id.String()},
		{"{{question.title}}", "Help"},
		{"{{question.content}}", "How?"},
		{"{{question.category}}", "go"},
		{"{{question.status}}", "open"},
		{"{{question.created_at}}", "2024-03-01T12:00:00Z"},
		{"{{previous_output}}", "prev"},
	}

	for _, tt := range tests {
		got := RenderPrompt(tt.tmpl, q, "prev")
		if got != tt.want {
			t.Errorf("RenderPrompt(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestRenderPrompt_UnknownPlaceholderPassesThrough(t *testing.T) {
	q := &domain.Question{Title: "T"}

	got := RenderPrompt("{{question.author}} wrote {{question.title}}", q, "")

	if got != "{{question.author}} wrote T" {
		t.Errorf("unknown placeholder should pass through verbatim, got %q", got)
	}
}

func TestRenderPrompt_MissingFieldsEmpty(t *testing.T) {
	q := &domain.Question{}

	got := RenderPrompt("[{{question.category}}][{{question.created_at}}]", q, "")

	if got != "[][]" {
		t.Errorf("missing fields should substitute as empty string, got %q", got)
	}
}

func TestRenderPrompt_ReplacesAllOccurrences(t *testing.T) {
	q := &domain.Question{Title: "X"}

	got := RenderPrompt("{{question.title}}{{question.title}}{{question.title}}", q, "")

	if got != "XXX" {
		t.Errorf("expected all occurrences replaced, got %q", got)
	}
}

func TestRenderPrompt_NoRecursiveExpansion(t *testing.T) {
	// Значение поля содержит плейсхолдер — он не должен раскрываться.
	q := &domain.Question{Title: "{{previous_output}}"}

	got := RenderPrompt("{{question.title}}", q, "secret")

	if got != "{{previous_output}}" {
		t.Errorf("substitution must not be recursive, got %q", got)
	}
}

func TestRenderPrompt_CaseSensitive(t *testing.T) {
	q := &domain.Question{Title: "T"}

	got := RenderPrompt("{{Question.Title}}", q, "")

	if got != "{{Question.Title}}" {
		t.Errorf("placeholders are case-sensitive, got %q", got)
	}
}

func TestRenderPrompt_NilQuestion(t *testing.T) {
	got := RenderPrompt("{{question.title}}|{{previous_output}}", nil, "p")

	if got != "|p" {
		t.Errorf("nil question substitutes empty fields, got %q", got)
	}
}
