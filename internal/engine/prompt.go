package engine

import (
	"strings"
	"time"

	"github.com/shaiso/Answerflow/internal/domain"
)

// Плейсхолдеры промпта — закрытый набор, чувствительный к регистру.
// Всё, что не входит в набор, остаётся в тексте дословно.
const (
	PlaceholderQuestionID        = "{{question.id}}"
	PlaceholderQuestionTitle     = "{{question.title}}"
	PlaceholderQuestionContent   = "{{question.content}}"
	PlaceholderQuestionCategory  = "{{question.category}}"
	PlaceholderQuestionStatus    = "{{question.status}}"
	PlaceholderQuestionCreatedAt = "{{question.created_at}}"
	PlaceholderPreviousOutput    = "{{previous_output}}"
)

// RenderPrompt подставляет поля вопроса и накопленный вывод в шаблон.
//
// Подстановка текстовая: без экранирования, без рекурсивного
// раскрытия, заменяются все вхождения. Отсутствующие значения
// подставляются пустой строкой.
func RenderPrompt(tmpl string, q *domain.Question, previousOutput string) string {
	// Быстрый путь: шаблон без плейсхолдеров.
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}

	var id, title, content, category, status, createdAt string
	if q != nil {
		id = q.ID.String()
		title = q.Title
		content = q.Content
		category = q.Category
		status = string(q.Status)
		if !q.CreatedAt.IsZero() {
			createdAt = q.CreatedAt.Format(time.RFC3339)
		}
	}

	r := strings.NewReplacer(
		PlaceholderQuestionID, id,
		PlaceholderQuestionTitle, title,
		PlaceholderQuestionContent, content,
		PlaceholderQuestionCategory, category,
		PlaceholderQuestionStatus, status,
		PlaceholderQuestionCreatedAt, createdAt,
		PlaceholderPreviousOutput, previousOutput,
	)
	return r.Replace(tmpl)
}
