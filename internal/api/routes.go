package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Webhooks
	mux.Handle("POST /api/v1/webhooks/question-created", chain(http.HandlerFunc(h.QuestionCreatedWebhook)))

	// Questions
	mux.Handle("GET /api/v1/questions", chain(http.HandlerFunc(h.ListQuestions)))
	mux.Handle("POST /api/v1/questions", chain(http.HandlerFunc(h.CreateQuestion)))
	mux.Handle("GET /api/v1/questions/{id}", chain(http.HandlerFunc(h.GetQuestion)))
	mux.Handle("GET /api/v1/questions/{id}/answers", chain(http.HandlerFunc(h.ListQuestionAnswers)))

	// Agents
	mux.Handle("GET /api/v1/agents", chain(http.HandlerFunc(h.ListAgents)))
	mux.Handle("POST /api/v1/agents", chain(http.HandlerFunc(h.CreateAgent)))
	mux.Handle("GET /api/v1/agents/{id}", chain(http.HandlerFunc(h.GetAgent)))

	// Flows
	mux.Handle("GET /api/v1/flows", chain(http.HandlerFunc(h.ListFlows)))
	mux.Handle("POST /api/v1/flows", chain(http.HandlerFunc(h.CreateFlow)))
	mux.Handle("GET /api/v1/flows/{id}", chain(http.HandlerFunc(h.GetFlow)))
	mux.Handle("PUT /api/v1/flows/{id}", chain(http.HandlerFunc(h.UpdateFlow)))
	mux.Handle("DELETE /api/v1/flows/{id}", chain(http.HandlerFunc(h.DeleteFlow)))

	// LLM configs
	mux.Handle("GET /api/v1/llm-configs", chain(http.HandlerFunc(h.ListConfigs)))
	mux.Handle("POST /api/v1/llm-configs", chain(http.HandlerFunc(h.CreateConfig)))

	// Run logs
	mux.Handle("GET /api/v1/run-logs", chain(http.HandlerFunc(h.ListRunLogs)))
}
