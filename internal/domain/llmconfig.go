package domain

import (
	"time"

	"github.com/google/uuid"
)

// LLMConfig — учётные данные для вызова LLM-провайдера.
//
// Принадлежит пользователю. Для agent-узла резолвится так:
// явная ссылка из узла, иначе первая конфигурация владельца агента,
// иначе конфигурация без ключа (вызов упадёт детерминированно).
type LLMConfig struct {
	// ID — уникальный идентификатор конфигурации.
	ID uuid.UUID `json:"id"`

	// UserID — пользователь-владелец.
	UserID uuid.UUID `json:"user_id"`

	// Name — имя для отображения.
	Name string `json:"name"`

	// APIBaseURL — базовый URL OpenAI-совместимого API.
	APIBaseURL string `json:"api_base_url"`

	// APIKey — секретный ключ. Пустая строка = ключ не задан.
	// Никогда не отдаётся наружу через API.
	APIKey string `json:"-"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`
}

// HasKey возвращает true, если ключ задан.
func (c *LLMConfig) HasKey() bool {
	return c.APIKey != ""
}
