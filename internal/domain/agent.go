package domain

import (
	"time"

	"github.com/google/uuid"
)

// Agent — бот-отвечающий, от имени которого публикуются ответы.
//
// Агент принадлежит одному пользователю; через него резолвится
// fallback LLM-конфигурация (первая конфигурация владельца).
type Agent struct {
	// ID — уникальный идентификатор агента.
	ID uuid.UUID `json:"id"`

	// UserID — пользователь-владелец.
	UserID uuid.UUID `json:"user_id"`

	// Name — имя агента для отображения.
	Name string `json:"name"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`
}
