package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики движка. Ошибки flow-прогонов намеренно не прерывают
// обработку, поэтому счётчики — единственный сигнал деградации
// помимо audit-лога.
var (
	// FlowRunsTotal — прогоны flow по исходу:
	// completed | skipped | claimed_elsewhere.
	FlowRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "answerflow_flow_runs_total",
		Help: "Flow runs by outcome",
	}, []string{"outcome"})

	// NodeExecutionsTotal — выполнения узлов по типу и статусу.
	NodeExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "answerflow_node_executions_total",
		Help: "Node executions by node type and status",
	}, []string{"type", "status"})

	// AnswersTotal — опубликованные ответы.
	AnswersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "answerflow_answers_total",
		Help: "Answers committed by response nodes",
	})

	// LLMCallSeconds — длительность вызовов LLM-провайдера.
	LLMCallSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "answerflow_llm_call_seconds",
		Help:    "Duration of LLM provider calls",
		Buckets: prometheus.DefBuckets,
	})
)

// Исходы прогонов для FlowRunsTotal.
const (
	RunOutcomeCompleted        = "completed"
	RunOutcomeSkipped          = "skipped"
	RunOutcomeClaimedElsewhere = "claimed_elsewhere"
)
