package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

// ListQuestions возвращает список вопросов.
// GET /api/v1/questions?category=&limit=
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := parseLimit(r.URL.Query().Get("limit"), 100, 200)

	questions, err := h.questionRepo.List(r.Context(), category, limit)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		result[i] = QuestionFromDomain(q)
	}

	List(w, result, len(result))
}

// CreateQuestion создаёт вопрос и запускает обработку.
// POST /api/v1/questions
//
// Ответ отправляется сразу после записи вопроса: событие для движка
// публикуется fire-and-forget, неудача публикации не ломает запрос
// (sweeper переиграет событие позже).
func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.UserID == uuid.Nil {
		BadRequest(w, "user_id is required")
		return
	}
	if req.Title == "" {
		BadRequest(w, "title is required")
		return
	}
	if req.Content == "" {
		BadRequest(w, "content is required")
		return
	}

	now := time.Now().UTC()
	question := &domain.Question{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Status:    domain.QuestionStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.questionRepo.Create(r.Context(), question); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if err := h.events.PublishQuestionCreated(r.Context(), question.ID); err != nil {
		h.logger.Warn("publish question.created failed",
			"question_id", question.ID,
			"error", err,
		)
	}

	Created(w, QuestionFromDomain(*question))
}

// GetQuestion возвращает вопрос по ID.
// GET /api/v1/questions/{id}
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid question id")
		return
	}

	question, err := h.questionRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "question not found") {
		return
	}

	Success(w, QuestionFromDomain(*question))
}

// ListQuestionAnswers возвращает ответы на вопрос, старые первыми.
// GET /api/v1/questions/{id}/answers
func (h *Handler) ListQuestionAnswers(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid question id")
		return
	}

	// Проверяем, что вопрос существует
	_, err = h.questionRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "question not found") {
		return
	}

	answers, err := h.answerRepo.ListByQuestion(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AnswerResponse, len(answers))
	for i, a := range answers {
		result[i] = AnswerFromDomain(a)
	}

	List(w, result, len(result))
}

// parseLimit разбирает limit из query с дефолтом и потолком.
func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
