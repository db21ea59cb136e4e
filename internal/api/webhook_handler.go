package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// webhookEvent — сырой payload внешнего webhook. Разные источники
// кладут идентификатор вопроса в разные места, поэтому все три
// варианта разбираются сразу.
type webhookEvent struct {
	Record *struct {
		ID string `json:"id"`
	} `json:"record"`

	Payload *struct {
		Record *struct {
			ID string `json:"id"`
		} `json:"record"`
	} `json:"payload"`

	QuestionID string `json:"question_id"`
}

// questionID извлекает идентификатор вопроса: record.id, затем
// payload.record.id, затем question_id.
func (e *webhookEvent) questionID() string {
	if e.Record != nil && e.Record.ID != "" {
		return e.Record.ID
	}
	if e.Payload != nil && e.Payload.Record != nil && e.Payload.Record.ID != "" {
		return e.Payload.Record.ID
	}
	return e.QuestionID
}

// QuestionCreatedWebhook принимает внешнее событие о создании вопроса.
// POST /api/v1/webhooks/question-created
//
// Отвечает 202 сразу после публикации события, сам прогон flows
// идёт асинхронно в движке.
func (h *Handler) QuestionCreatedWebhook(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		BadRequest(w, "invalid webhook payload")
		return
	}

	raw := event.questionID()
	if raw == "" {
		BadRequest(w, "webhook payload has no question id")
		return
	}

	questionID, err := uuid.Parse(raw)
	if err != nil {
		BadRequest(w, "invalid question id in webhook payload")
		return
	}

	if err := h.events.PublishQuestionCreated(r.Context(), questionID); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Accepted(w, WebhookAccepted{QuestionID: questionID})
}
