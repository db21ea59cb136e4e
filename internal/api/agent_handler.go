package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

// ListAgents возвращает список агентов.
// GET /api/v1/agents
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agentRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AgentResponse, len(agents))
	for i, a := range agents {
		result[i] = AgentFromDomain(a)
	}

	List(w, result, len(result))
}

// CreateAgent создаёт агента.
// POST /api/v1/agents
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.UserID == uuid.Nil {
		BadRequest(w, "user_id is required")
		return
	}
	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	agent := &domain.Agent{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.agentRepo.Create(r.Context(), agent); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, AgentFromDomain(*agent))
}

// GetAgent возвращает агента по ID.
// GET /api/v1/agents/{id}
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid agent id")
		return
	}

	agent, err := h.agentRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "agent not found") {
		return
	}

	Success(w, AgentFromDomain(*agent))
}
