package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

// ListConfigs возвращает LLM-конфигурации пользователя.
// Ключи в ответ не попадают.
// GET /api/v1/llm-configs?user_id=
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		BadRequest(w, "user_id is required")
		return
	}

	configs, err := h.configRepo.ListForUser(r.Context(), userID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ConfigResponse, len(configs))
	for i, c := range configs {
		result[i] = ConfigFromDomain(c)
	}

	List(w, result, len(result))
}

// CreateConfig создаёт LLM-конфигурацию.
// POST /api/v1/llm-configs
func (h *Handler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigRequest
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

	cfg := &domain.LLMConfig{
		ID:         uuid.New(),
		UserID:     req.UserID,
		Name:       req.Name,
		APIBaseURL: req.APIBaseURL,
		APIKey:     req.APIKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.configRepo.Create(r.Context(), cfg); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, ConfigFromDomain(*cfg))
}
