package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
	"github.com/shaiso/Answerflow/internal/engine"
	"github.com/shaiso/Answerflow/internal/repo"
	"github.com/shaiso/Answerflow/internal/telemetry"
)

// runFlow выполняет один прогон flow по вопросу.
//
// Порядок шагов:
//  1. разрешить агента-владельца (нет агента — тихий пропуск);
//  2. застолбить пару (question, flow) — проигранный claim значит,
//     что прогон уже был или идёт в другом экземпляре движка;
//  3. выстроить порядок узлов и пройти по нему.
func (r *Runner) runFlow(ctx context.Context, logger *slog.Logger, question *domain.Question, flow *domain.Flow) {
	agent, err := r.agents.GetByID(ctx, flow.AgentID)
	if errors.Is(err, repo.ErrNotFound) {
		logger.Warn("flow references missing agent, skipping", "agent_id", flow.AgentID)
		telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeSkipped).Inc()
		return
	}
	if err != nil {
		logger.Error("load agent failed", "agent_id", flow.AgentID, "error", err)
		telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeSkipped).Inc()
		return
	}

	claimed, err := r.flows.ClaimRun(ctx, question.ID, flow.ID)
	if err != nil {
		logger.Error("claim run failed", "error", err)
		telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeSkipped).Inc()
		return
	}
	if !claimed {
		logger.Info("run already claimed, skipping")
		telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeClaimedElsewhere).Inc()
		return
	}

	flowRunID := uuid.New()
	logger = telemetry.WithFlowRunID(logger, flowRunID.String())

	order := engine.ExecutionOrder(flow.Graph.Nodes, flow.Graph.Edges)
	if len(order) == 0 {
		logger.Warn("flow has no executable nodes, skipping")
		telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeSkipped).Inc()
		return
	}

	nodesByID := make(map[string]*domain.Node, len(flow.Graph.Nodes))
	for i := range flow.Graph.Nodes {
		nodesByID[flow.Graph.Nodes[i].ID] = &flow.Graph.Nodes[i]
	}

	run := &flowRun{
		id:       flowRunID,
		question: question,
		flow:     flow,
		agent:    agent,
		userContent: fmt.Sprintf("Question title: %s\n\nQuestion content:\n%s",
			question.Title, question.Content),
	}

	logger.Info("flow run started", "nodes", len(order))

	for _, nodeID := range order {
		node := nodesByID[nodeID]

		switch node.Type {
		case domain.NodeTypeTrigger:
			telemetry.NodeExecutionsTotal.WithLabelValues(string(node.Type), "success").Inc()

		case domain.NodeTypeAgent:
			r.runAgentNode(ctx, logger, run, node)

		case domain.NodeTypeResponse:
			r.runResponseNode(ctx, logger, run)
			telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeCompleted).Inc()
			logger.Info("flow run completed")
			return

		default:
			logger.Warn("unknown node type, skipping", "node_id", node.ID, "type", node.Type)
			telemetry.NodeExecutionsTotal.WithLabelValues(string(node.Type), "skipped").Inc()
		}
	}

	// Порядок исчерпан без response-узла: прогон завершён,
	// накопленный вывод никуда не публикуется.
	telemetry.FlowRunsTotal.WithLabelValues(telemetry.RunOutcomeCompleted).Inc()
	logger.Info("flow run completed without response node")
}

// flowRun — состояние одного прогона, протаскиваемое между узлами.
type flowRun struct {
	id       uuid.UUID
	question *domain.Question
	flow     *domain.Flow
	agent    *domain.Agent

	// userContent строится один раз на прогон и одинаков для всех
	// agent-узлов.
	userContent string

	// previousOutput — вывод последнего agent-узла. Ошибки тоже
	// протекают вперёд с префиксом "[Error] ", чтобы следующий узел
	// видел, что предыдущий шаг не удался.
	previousOutput string
}

// runAgentNode рендерит промпт, вызывает LLM и пишет запись аудита.
// Неудача не прерывает прогон: сообщение об ошибке становится
// previousOutput для следующего узла.
func (r *Runner) runAgentNode(ctx context.Context, logger *slog.Logger, run *flowRun, node *domain.Node) {
	data := node.AgentData()
	cfg := r.resolveConfig(ctx, logger, data.LLMConfigID, run.agent.UserID)

	systemPrompt := engine.RenderPrompt(data.SystemPrompt, run.question, run.previousOutput)

	start := time.Now()
	result := r.invoker.Invoke(ctx, cfg, data.Model, systemPrompt, run.userContent)
	telemetry.LLMCallSeconds.Observe(time.Since(start).Seconds())

	logEntry := &domain.AgentRunLog{
		ID:           uuid.New(),
		FlowRunID:    run.id,
		QuestionID:   run.question.ID,
		FlowID:       run.flow.ID,
		AgentID:      run.agent.ID,
		NodeID:       node.ID,
		Model:        data.Model,
		SystemPrompt: systemPrompt,
		UserContent:  run.userContent,
		CreatedAt:    time.Now().UTC(),
	}

	if result.Success() {
		logEntry.Status = domain.RunLogStatusSuccess
		logEntry.ResponseContent = result.Content
		run.previousOutput = result.Content
		telemetry.NodeExecutionsTotal.WithLabelValues(string(domain.NodeTypeAgent), "success").Inc()
		logger.Info("agent node succeeded", "node_id", node.ID, "model", data.Model)
	} else {
		logEntry.Status = domain.RunLogStatusError
		logEntry.ErrorMessage = result.Err
		run.previousOutput = "[Error] " + result.Err
		telemetry.NodeExecutionsTotal.WithLabelValues(string(domain.NodeTypeAgent), "error").Inc()
		logger.Warn("agent node failed", "node_id", node.ID, "model", data.Model, "error", result.Err)
	}

	if err := r.logs.Create(ctx, logEntry); err != nil {
		logger.Error("write run log failed", "node_id", node.ID, "error", err)
	}
}

// runResponseNode публикует накопленный вывод как ответ агента
// и помечает вопрос отвеченным. Пустой вывод не публикуется.
func (r *Runner) runResponseNode(ctx context.Context, logger *slog.Logger, run *flowRun) {
	if run.previousOutput == "" {
		logger.Warn("response node has no content to publish")
		telemetry.NodeExecutionsTotal.WithLabelValues(string(domain.NodeTypeResponse), "skipped").Inc()
		return
	}

	answer := &domain.Answer{
		ID:         uuid.New(),
		QuestionID: run.question.ID,
		AgentID:    run.agent.ID,
		FlowID:     run.flow.ID,
		Content:    run.previousOutput,
		IsAI:       true,
		CreatedAt:  time.Now().UTC(),
	}

	if err := r.answers.Create(ctx, answer); err != nil {
		logger.Error("publish answer failed", "error", err)
		telemetry.NodeExecutionsTotal.WithLabelValues(string(domain.NodeTypeResponse), "error").Inc()
		return
	}

	telemetry.AnswersTotal.Inc()
	telemetry.NodeExecutionsTotal.WithLabelValues(string(domain.NodeTypeResponse), "success").Inc()

	if err := r.questions.MarkAnswered(ctx, run.question.ID, time.Now().UTC()); err != nil {
		logger.Error("mark question answered failed", "error", err)
	}

	logger.Info("answer published", "answer_id", answer.ID)
}

// resolveConfig выбирает LLM-конфигурацию для agent-узла.
//
// Явный llm_config_id ищется строго в пределах владельца агента и
// без fallback: сломанная ссылка даёт nil, а вызов LLM с nil
// конфигурацией честно упадёт с ошибкой конфигурации и попадёт
// в аудит. Без явного id берётся самая старая конфигурация владельца.
func (r *Runner) resolveConfig(ctx context.Context, logger *slog.Logger, configID *uuid.UUID, userID uuid.UUID) *domain.LLMConfig {
	var (
		cfg *domain.LLMConfig
		err error
	)

	if configID != nil {
		cfg, err = r.configs.GetByIDForUser(ctx, *configID, userID)
	} else {
		cfg, err = r.configs.FirstForUser(ctx, userID)
	}

	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Warn("resolve llm config failed", "error", err)
		return nil
	}

	return cfg
}
