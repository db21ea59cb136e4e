package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/repo"
)

// ListRunLogs возвращает записи аудита, новые первыми.
// GET /api/v1/run-logs?question_id=&agent_id=&limit=
func (h *Handler) ListRunLogs(w http.ResponseWriter, r *http.Request) {
	filter := repo.LogFilter{
		Limit: parseLimit(r.URL.Query().Get("limit"), 100, 200),
	}

	if raw := r.URL.Query().Get("question_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			BadRequest(w, "invalid question_id")
			return
		}
		filter.QuestionID = &id
	}

	if raw := r.URL.Query().Get("agent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			BadRequest(w, "invalid agent_id")
			return
		}
		filter.AgentID = &id
	}

	logs, err := h.runLogRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunLogResponse, len(logs))
	for i, l := range logs {
		result[i] = RunLogFromDomain(l)
	}

	List(w, result, len(result))
}
