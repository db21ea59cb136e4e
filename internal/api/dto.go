package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Answerflow/internal/domain"
)

// Question DTOs

// CreateQuestionRequest — запрос на создание вопроса.
type CreateQuestionRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Category string    `json:"category,omitempty"`
}

// QuestionResponse — ответ с вопросом.
type QuestionResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionFromDomain конвертирует domain.Question в QuestionResponse.
func QuestionFromDomain(q domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:        q.ID,
		UserID:    q.UserID,
		Title:     q.Title,
		Content:   q.Content,
		Category:  q.Category,
		Status:    string(q.Status),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// Answer DTOs

// AnswerResponse — ответ с answer.
type AnswerResponse struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	AgentID    uuid.UUID `json:"agent_id"`
	FlowID     uuid.UUID `json:"flow_id"`
	Content    string    `json:"content"`
	IsAI       bool      `json:"is_ai"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerFromDomain конвертирует domain.Answer в AnswerResponse.
func AnswerFromDomain(a domain.Answer) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		AgentID:    a.AgentID,
		FlowID:     a.FlowID,
		Content:    a.Content,
		IsAI:       a.IsAI,
		CreatedAt:  a.CreatedAt,
	}
}

// Agent DTOs

// CreateAgentRequest — запрос на создание агента.
type CreateAgentRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

// AgentResponse — ответ с агентом.
type AgentResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentFromDomain конвертирует domain.Agent в AgentResponse.
func AgentFromDomain(a domain.Agent) AgentResponse {
	return AgentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// Flow DTOs

// CreateFlowRequest — запрос на создание flow.
type CreateFlowRequest struct {
	AgentID     uuid.UUID        `json:"agent_id"`
	Name        string           `json:"name"`
	TriggerType string           `json:"trigger_type,omitempty"`
	IsActive    bool             `json:"is_active"`
	Graph       domain.FlowGraph `json:"graph"`
}

// UpdateFlowRequest — запрос на обновление flow.
type UpdateFlowRequest struct {
	Name     *string           `json:"name,omitempty"`
	IsActive *bool             `json:"is_active,omitempty"`
	Graph    *domain.FlowGraph `json:"graph,omitempty"`
}

// FlowResponse — ответ с flow.
type FlowResponse struct {
	ID          uuid.UUID        `json:"id"`
	AgentID     uuid.UUID        `json:"agent_id"`
	Name        string           `json:"name"`
	TriggerType string           `json:"trigger_type"`
	IsActive    bool             `json:"is_active"`
	Graph       domain.FlowGraph `json:"graph"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FlowFromDomain конвертирует domain.Flow в FlowResponse.
func FlowFromDomain(f domain.Flow) FlowResponse {
	return FlowResponse{
		ID:          f.ID,
		AgentID:     f.AgentID,
		Name:        f.Name,
		TriggerType: f.TriggerType,
		IsActive:    f.IsActive,
		Graph:       f.Graph,
		CreatedAt:   f.CreatedAt,
	}
}

// LLM config DTOs

// CreateConfigRequest — запрос на создание LLM-конфигурации.
type CreateConfigRequest struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	APIBaseURL string    `json:"api_base_url,omitempty"`
	APIKey     string    `json:"api_key,omitempty"`
}

// ConfigResponse — ответ с LLM-конфигурацией.
// Ключ наружу не отдаётся никогда, только признак его наличия.
type ConfigResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	APIBaseURL string    `json:"api_base_url,omitempty"`
	HasKey     bool      `json:"has_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConfigFromDomain конвертирует domain.LLMConfig в ConfigResponse.
func ConfigFromDomain(c domain.LLMConfig) ConfigResponse {
	return ConfigResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		APIBaseURL: c.APIBaseURL,
		HasKey:     c.HasKey(),
		CreatedAt:  c.CreatedAt,
	}
}

// Run log DTOs

// RunLogResponse — ответ с записью аудита.
type RunLogResponse struct {
	ID              uuid.UUID `json:"id"`
	FlowRunID       uuid.UUID `json:"flow_run_id"`
	QuestionID      uuid.UUID `json:"question_id"`
	FlowID          uuid.UUID `json:"flow_id"`
	AgentID         uuid.UUID `json:"agent_id"`
	NodeID          string    `json:"node_id"`
	Status          string    `json:"status"`
	Model           string    `json:"model"`
	SystemPrompt    string    `json:"system_prompt"`
	UserContent     string    `json:"user_content"`
	ResponseContent string    `json:"response_content,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// RunLogFromDomain конвертирует domain.AgentRunLog в RunLogResponse.
func RunLogFromDomain(l domain.AgentRunLog) RunLogResponse {
	return RunLogResponse{
		ID:              l.ID,
		FlowRunID:       l.FlowRunID,
		QuestionID:      l.QuestionID,
		FlowID:          l.FlowID,
		AgentID:         l.AgentID,
		NodeID:          l.NodeID,
		Status:          string(l.Status),
		Model:           l.Model,
		SystemPrompt:    l.SystemPrompt,
		UserContent:     l.UserContent,
		ResponseContent: l.ResponseContent,
		ErrorMessage:    l.ErrorMessage,
		CreatedAt:       l.CreatedAt,
	}
}

// Webhook DTOs

// WebhookAccepted — подтверждение принятого webhook-события.
type WebhookAccepted struct {
	QuestionID uuid.UUID `json:"question_id"`
}
