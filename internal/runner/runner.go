package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
	"github.com/shaiso/Answerflow/internal/llm"
	"github.com/shaiso/Answerflow/internal/repo"
	"github.com/shaiso/Answerflow/internal/telemetry"
)

// Config — зависимости Runner.
type Config struct {
	Questions QuestionStore
	Flows     FlowStore
	Agents    AgentStore
	Configs   ConfigStore
	Logs      LogStore
	Answers   AnswerStore
	Invoker   llm.Invoker
	Logger    *slog.Logger
}

// Runner прогоняет flows в ответ на события о вопросах.
type Runner struct {
	questions QuestionStore
	flows     FlowStore
	agents    AgentStore
	configs   ConfigStore
	logs      LogStore
	answers   AnswerStore
	invoker   llm.Invoker
	logger    *slog.Logger
}

// New создаёт Runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		questions: cfg.Questions,
		flows:     cfg.Flows,
		agents:    cfg.Agents,
		configs:   cfg.Configs,
		logs:      cfg.Logs,
		answers:   cfg.Answers,
		invoker:   cfg.Invoker,
		logger:    logger,
	}
}

// RunQuestion находит активные flows с триггером question_created
// и прогоняет каждый по свежесозданному вопросу.
//
// Flows выполняются последовательно и независимо: ошибка или паника
// в одном не останавливает остальные. Ошибка возвращается только
// когда не удалось даже начать (вопрос или список flows недоступны).
func (r *Runner) RunQuestion(ctx context.Context, questionID uuid.UUID) error {
	logger := telemetry.WithQuestionID(r.logger, questionID.String())

	question, err := r.questions.GetByID(ctx, questionID)
	if errors.Is(err, repo.ErrNotFound) {
		// Событие могло пережить удаление вопроса. Не ошибка.
		logger.Warn("question not found, nothing to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load question: %w", err)
	}

	flows, err := r.flows.ListActiveByTrigger(ctx, domain.TriggerQuestionCreated)
	if err != nil {
		return fmt.Errorf("list active flows: %w", err)
	}

	if len(flows) == 0 {
		logger.Debug("no active flows for trigger", "trigger", domain.TriggerQuestionCreated)
		return nil
	}

	logger.Info("running flows", "count", len(flows))

	for i := range flows {
		r.runFlowSafe(ctx, question, &flows[i])
	}

	return nil
}

// runFlowSafe изолирует прогон одного flow: паника логируется
// и не прерывает обработку остальных.
func (r *Runner) runFlowSafe(ctx context.Context, question *domain.Question, flow *domain.Flow) {
	logger := telemetry.WithFlowID(
		telemetry.WithQuestionID(r.logger, question.ID.String()),
		flow.ID.String(),
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("flow run panicked", "panic", rec)
			telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeSkipped).Inc()
		}
	}()

	r.runFlow(ctx, logger, question, flow)
}
