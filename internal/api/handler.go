package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/repo"
)

// EventPublisher — публикация события о создании вопроса.
// Реализуется mq.Publisher.
type EventPublisher interface {
	PublishQuestionCreated(ctx context.Context, questionID uuid.UUID) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	questionRepo *repo.QuestionRepo
	answerRepo   *repo.AnswerRepo
	agentRepo    *repo.AgentRepo
	flowRepo     *repo.FlowRepo
	configRepo   *repo.ConfigRepo
	runLogRepo   *repo.RunLogRepo
	events       EventPublisher
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	QuestionRepo *repo.QuestionRepo
	AnswerRepo   *repo.AnswerRepo
	AgentRepo    *repo.AgentRepo
	FlowRepo     *repo.FlowRepo
	ConfigRepo   *repo.ConfigRepo
	RunLogRepo   *repo.RunLogRepo
	Events       EventPublisher
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		questionRepo: cfg.QuestionRepo,
		answerRepo:   cfg.AnswerRepo,
		agentRepo:    cfg.AgentRepo,
		flowRepo:     cfg.FlowRepo,
		configRepo:   cfg.ConfigRepo,
		runLogRepo:   cfg.RunLogRepo,
		events:       cfg.Events,
		logger:       cfg.Logger,
	}
}
