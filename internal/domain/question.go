package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionStatus — статус вопроса.
//
// Жизненный цикл:
//
//	open → answered
type QuestionStatus string

const (
	// QuestionStatusOpen — вопрос создан, ответа ещё нет.
	QuestionStatusOpen QuestionStatus = "open"

	// QuestionStatusAnswered — хотя бы один flow опубликовал ответ.
	QuestionStatusAnswered QuestionStatus = "answered"
)

// Question — вопрос, заданный пользователем на площадке.
//
// Для движка вопрос неизменяем в пределах одного прогона:
// он читается один раз, и единственный побочный эффект —
// перевод статуса в answered после успешного response-узла.
type Question struct {
	// ID — уникальный идентификатор вопроса.
	ID uuid.UUID `json:"id"`

	// UserID — автор вопроса.
	UserID uuid.UUID `json:"user_id"`

	// Title — заголовок вопроса.
	Title string `json:"title"`

	// Content — текст вопроса.
	Content string `json:"content"`

	// Category — категория (опционально, пустая строка = нет).
	Category string `json:"category,omitempty"`

	// Status — текущий статус.
	Status QuestionStatus `json:"status"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения (обновляется при ответе).
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAnswered возвращает true, если на вопрос уже есть ответ.
func (q *Question) IsAnswered() bool {
	return q.Status == QuestionStatusAnswered
}
