package domain

import (
	"time"

	"github.com/google/uuid"
)

// Answer — опубликованный ответ на вопрос.
//
// Движок создаёт Answer только когда response-узел достигнут
// с непустым накопленным выводом. Никогда не изменяется и не удаляется.
type Answer struct {
	// ID — уникальный идентификатор ответа.
	ID uuid.UUID `json:"id"`

	// QuestionID — вопрос, на который дан ответ.
	QuestionID uuid.UUID `json:"question_id"`

	// AgentID — агент, опубликовавший ответ.
	AgentID uuid.UUID `json:"agent_id"`

	// FlowID — flow, породивший ответ.
	FlowID uuid.UUID `json:"flow_id"`

	// Content — текст ответа (последний previous_output прогона).
	Content string `json:"content"`

	// IsAI — всегда true для ответов движка.
	IsAI bool `json:"is_ai"`

	// CreatedAt — время публикации.
	CreatedAt time.Time `json:"created_at"`
}
