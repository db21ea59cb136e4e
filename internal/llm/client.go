package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/Answerflow/internal/domain"
)

const (
	// DefaultBaseURL — базовый URL, если конфигурация его не задала.
	DefaultBaseURL = "https://api.openai.com/v1"

	// defaultTimeout — ограничение на один вызов провайдера.
	defaultTimeout = 30 * time.Second

	// maxTokens — лимит токенов ответа.
	maxTokens = 1024

	// maxErrorBody — сколько байт тела ошибки сохраняется в результате.
	maxErrorBody = 500

	// noContent — подставляется, когда провайдер вернул конверт
	// без строкового content: вызов дошёл до провайдера, это не ошибка.
	noContent = "[no content]"
)

// Result — результат одного вызова провайдера.
//
// Err непустой тогда и только тогда, когда вызов не удался
// (конфигурация, транспорт или не-2xx ответ).
type Result struct {
	// Content — содержимое первого choice (только при успехе).
	Content string

	// Err — сообщение об ошибке (только при неудаче).
	Err string
}

// Success возвращает true, если вызов удался.
func (r Result) Success() bool {
	return r.Err == ""
}

// Invoker — способность выполнить один вызов LLM.
// Runner получает её как зависимость, в тестах подменяется фейком.
type Invoker interface {
	Invoke(ctx context.Context, cfg *domain.LLMConfig, model, systemPrompt, userContent string) Result
}

// Client — HTTP-клиент для chat-completion вызовов.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option настраивает Client.
type Option func(*Client)

// WithTimeout задаёт таймаут одного вызова.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient подменяет нижележащий http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient создаёт новый Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatMessage — одно сообщение в запросе.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest — тело запроса к /chat/completions.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// chatResponse — конверт ответа провайдера.
// Content типизирован как any: провайдер может вернуть null
// или не-строку, это обрабатывается отдельно.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Invoke выполняет один синхронный вызов провайдера.
//
// Без ключа падает сразу, не выходя в сеть. Не-2xx ответ превращается
// в error-результат со статусом и усечённым телом; транспортная
// ошибка — в error-результат с её сообщением. Никогда не возвращает
// panic или error наружу: все исходы выражены в Result.
func (c *Client) Invoke(ctx context.Context, cfg *domain.LLMConfig, model, systemPrompt, userContent string) Result {
	if cfg == nil || !cfg.HasKey() {
		return Result{Err: "LLM not configured: no API key available"}
	}

	base := cfg.APIBaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	url := strings.TrimSuffix(base, "/") + "/chat/completions"

	if model == "" {
		model = domain.DefaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return Result{Err: fmt.Sprintf("marshal request: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Err: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Err: fmt.Sprintf("API error: %d %s", resp.StatusCode, truncate(string(respBody), maxErrorBody))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{Err: fmt.Sprintf("decode response: %v", err)}
	}

	content := noContent
	if len(parsed.Choices) > 0 {
		if s, ok := parsed.Choices[0].Message.Content.(string); ok {
			content = s
		}
	}

	return Result{Content: content}
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
