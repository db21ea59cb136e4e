package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

// Интерфейсы хранилищ описывают ровно те способности, которые нужны
// движку. Реализуются типами из internal/repo, в тестах — фейками.

// QuestionStore — чтение вопросов и отметка отвеченных.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	MarkAnswered(ctx context.Context, id uuid.UUID, at time.Time) error
}

// FlowStore — выбор активных flows и claim прогонов.
type FlowStore interface {
	ListActiveByTrigger(ctx context.Context, triggerType string) ([]domain.Flow, error)

	// ClaimRun атомарно регистрирует прогон пары (question, flow).
	// false означает, что прогон уже был зарегистрирован раньше.
	ClaimRun(ctx context.Context, questionID, flowID uuid.UUID) (bool, error)
}

// AgentStore — чтение агентов.
type AgentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
}

// ConfigStore — разрешение LLM-конфигураций.
type ConfigStore interface {
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.LLMConfig, error)
	FirstForUser(ctx context.Context, userID uuid.UUID) (*domain.LLMConfig, error)
}

// LogStore — запись аудита выполнений agent-узлов.
type LogStore interface {
	Create(ctx context.Context, log *domain.AgentRunLog) error
}

// AnswerStore — публикация ответов.
type AnswerStore interface {
	Create(ctx context.Context, answer *domain.Answer) error
}
