package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
	"github.com/shaiso/Answerflow/internal/engine"
)

// ListFlows возвращает список flows, опционально по агенту.
// GET /api/v1/flows?agent_id=
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	var (
		flows []domain.Flow
		err   error
	)

	if raw := r.URL.Query().Get("agent_id"); raw != "" {
		agentID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			BadRequest(w, "invalid agent_id")
			return
		}
		flows, err = h.flowRepo.ListByAgent(r.Context(), agentID)
	} else {
		flows, err = h.flowRepo.List(r.Context())
	}
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]FlowResponse, len(flows))
	for i, f := range flows {
		result[i] = FlowFromDomain(f)
	}

	List(w, result, len(result))
}

// CreateFlow создаёт flow. Граф валидируется на сохранении:
// движок на прогоне снисходителен, поэтому битые графы
// отсекаются здесь.
// POST /api/v1/flows
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var req CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if req.AgentID == uuid.Nil {
		BadRequest(w, "agent_id is required")
		return
	}

	triggerType := req.TriggerType
	if triggerType == "" {
		triggerType = domain.TriggerQuestionCreated
	}

	if err := engine.ValidateGraph(&req.Graph); err != nil {
		InvalidGraph(w, err.Error())
		return
	}

	// Агент должен существовать
	_, err := h.agentRepo.GetByID(r.Context(), req.AgentID)
	if HandleRepoError(w, h.logger, err, "agent not found") {
		return
	}

	flow := &domain.Flow{
		ID:          uuid.New(),
		AgentID:     req.AgentID,
		Name:        req.Name,
		TriggerType: triggerType,
		IsActive:    req.IsActive,
		Graph:       req.Graph,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.flowRepo.Create(r.Context(), flow); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, FlowFromDomain(*flow))
}

// GetFlow возвращает flow по ID.
// GET /api/v1/flows/{id}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	flow, err := h.flowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// UpdateFlow обновляет flow. Новый граф проходит ту же валидацию,
// что и при создании.
// PUT /api/v1/flows/{id}
func (h *Handler) UpdateFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	var req UpdateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	flow, err := h.flowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	if req.Graph != nil {
		if err := engine.ValidateGraph(req.Graph); err != nil {
			InvalidGraph(w, err.Error())
			return
		}
		flow.Graph = *req.Graph
	}
	if req.Name != nil {
		flow.Name = *req.Name
	}
	if req.IsActive != nil {
		flow.IsActive = *req.IsActive
	}

	if err := h.flowRepo.Update(r.Context(), flow); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// DeleteFlow удаляет flow.
// DELETE /api/v1/flows/{id}
func (h *Handler) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid flow id")
		return
	}

	if HandleRepoError(w, h.logger, h.flowRepo.Delete(r.Context(), id), "flow not found") {
		return
	}

	NoContent(w)
}
