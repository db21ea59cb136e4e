package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// QuestionResponse — вопрос из API.
type QuestionResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AnswerResponse — ответ из API.
type AnswerResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	AgentID    string `json:"agent_id"`
	FlowID     string `json:"flow_id"`
	Content    string `json:"content"`
	IsAI       bool   `json:"is_ai"`
	CreatedAt  string `json:"created_at"`
}

// AgentResponse — агент из API.
type AgentResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// FlowResponse — flow из API.
type FlowResponse struct {
	ID          string          `json:"id"`
	AgentID     string          `json:"agent_id"`
	Name        string          `json:"name"`
	TriggerType string          `json:"trigger_type"`
	IsActive    bool            `json:"is_active"`
	Graph       json.RawMessage `json:"graph"`
	CreatedAt   string          `json:"created_at"`
}

// RunLogResponse — запись аудита из API.
type RunLogResponse struct {
	ID              string `json:"id"`
	FlowRunID       string `json:"flow_run_id"`
	QuestionID      string `json:"question_id"`
	FlowID          string `json:"flow_id"`
	AgentID         string `json:"agent_id"`
	NodeID          string `json:"node_id"`
	Status          string `json:"status"`
	Model           string `json:"model"`
	SystemPrompt    string `json:"system_prompt"`
	UserContent     string `json:"user_content"`
	ResponseContent string `json:"response_content,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// --- Request types ---

// CreateQuestionRequest — создание вопроса.
type CreateQuestionRequest struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// CreateAgentRequest — создание агента.
type CreateAgentRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// CreateFlowRequest — создание flow.
type CreateFlowRequest struct {
	AgentID     string          `json:"agent_id"`
	Name        string          `json:"name"`
	TriggerType string          `json:"trigger_type,omitempty"`
	IsActive    bool            `json:"is_active"`
	Graph       json.RawMessage `json:"graph"`
}

// UpdateFlowRequest — обновление flow.
type UpdateFlowRequest struct {
	Name     *string         `json:"name,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
	Graph    json.RawMessage `json:"graph,omitempty"`
}

// ListQuestionsOpts — параметры фильтрации вопросов.
type ListQuestionsOpts struct {
	Category string
	Limit    int
}

// ListLogsOpts — параметры фильтрации записей аудита.
type ListLogsOpts struct {
	QuestionID string
	AgentID    string
	Limit      int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Answerflow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Questions ---

// ListQuestions возвращает вопросы с фильтрацией.
func (c *Client) ListQuestions(opts ListQuestionsOpts) ([]QuestionResponse, error) {
	params := url.Values{}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var questions []QuestionResponse
	err := c.list("/api/v1/questions", params, &questions)
	return questions, err
}

// CreateQuestion создаёт вопрос.
func (c *Client) CreateQuestion(req CreateQuestionRequest) (*QuestionResponse, error) {
	var question QuestionResponse
	err := c.post("/api/v1/questions", req, &question)
	return &question, err
}

// GetQuestion возвращает вопрос по ID.
func (c *Client) GetQuestion(id string) (*QuestionResponse, error) {
	var question QuestionResponse
	err := c.get("/api/v1/questions/"+id, &question)
	return &question, err
}

// ListAnswers возвращает ответы на вопрос.
func (c *Client) ListAnswers(questionID string) ([]AnswerResponse, error) {
	var answers []AnswerResponse
	err := c.list("/api/v1/questions/"+questionID+"/answers", nil, &answers)
	return answers, err
}

// --- Agents ---

// ListAgents возвращает всех агентов.
func (c *Client) ListAgents() ([]AgentResponse, error) {
	var agents []AgentResponse
	err := c.list("/api/v1/agents", nil, &agents)
	return agents, err
}

// CreateAgent создаёт агента.
func (c *Client) CreateAgent(req CreateAgentRequest) (*AgentResponse, error) {
	var agent AgentResponse
	err := c.post("/api/v1/agents", req, &agent)
	return &agent, err
}

// --- Flows ---

// ListFlows возвращает flows. Если agentID не пустой — фильтрует.
func (c *Client) ListFlows(agentID string) ([]FlowResponse, error) {
	params := url.Values{}
	if agentID != "" {
		params.Set("agent_id", agentID)
	}

	var flows []FlowResponse
	err := c.list("/api/v1/flows", params, &flows)
	return flows, err
}

// CreateFlow создаёт новый flow.
func (c *Client) CreateFlow(req CreateFlowRequest) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.post("/api/v1/flows", req, &flow)
	return &flow, err
}

// GetFlow возвращает flow по ID.
func (c *Client) GetFlow(id string) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.get("/api/v1/flows/"+id, &flow)
	return &flow, err
}

// UpdateFlow обновляет flow.
func (c *Client) UpdateFlow(id string, req UpdateFlowRequest) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.put("/api/v1/flows/"+id, req, &flow)
	return &flow, err
}

// DeleteFlow удаляет flow.
func (c *Client) DeleteFlow(id string) error {
	return c.delete("/api/v1/flows/" + id)
}

// --- Run logs ---

// ListRunLogs возвращает записи аудита с фильтрацией.
func (c *Client) ListRunLogs(opts ListLogsOpts) ([]RunLogResponse, error) {
	params := url.Values{}
	if opts.QuestionID != "" {
		params.Set("question_id", opts.QuestionID)
	}
	if opts.AgentID != "" {
		params.Set("agent_id", opts.AgentID)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var logs []RunLogResponse
	err := c.list("/api/v1/run-logs", params, &logs)
	return logs, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
