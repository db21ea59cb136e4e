package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunLogStatus — исход выполнения agent-узла.
type RunLogStatus string

const (
	// RunLogStatusSuccess — вызов LLM вернул ответ.
	RunLogStatusSuccess RunLogStatus = "success"

	// RunLogStatusError — вызов не удался (конфигурация, транспорт или провайдер).
	RunLogStatusError RunLogStatus = "error"
)

// AgentRunLog — append-only запись аудита одного выполнения agent-узла.
//
// Одна строка на каждую попытку вызова LLM, успешную или нет.
// Это основная поверхность наблюдаемости движка: отрендеренный
// промпт и сырой ответ/ошибка сохраняются дословно.
type AgentRunLog struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// FlowRunID — корреляционный идентификатор одного прогона flow.
	// Генерируется заново на каждый прогон, отдельно не хранится.
	FlowRunID uuid.UUID `json:"flow_run_id"`

	// QuestionID — вопрос, по которому шёл прогон.
	QuestionID uuid.UUID `json:"question_id"`

	// FlowID — выполнявшийся flow.
	FlowID uuid.UUID `json:"flow_id"`

	// AgentID — агент-владелец flow.
	AgentID uuid.UUID `json:"agent_id"`

	// NodeID — ID agent-узла внутри графа.
	NodeID string `json:"node_id"`

	// Status — success или error.
	Status RunLogStatus `json:"status"`

	// Model — модель, с которой делался вызов.
	Model string `json:"model"`

	// SystemPrompt — отрендеренный системный промпт.
	SystemPrompt string `json:"system_prompt"`

	// UserContent — содержимое user-сообщения.
	UserContent string `json:"user_content"`

	// ResponseContent — ответ провайдера (только при success).
	ResponseContent string `json:"response_content,omitempty"`

	// ErrorMessage — сообщение об ошибке (только при error).
	ErrorMessage string `json:"error_message,omitempty"`

	// CreatedAt — время записи.
	CreatedAt time.Time `json:"created_at"`
}
