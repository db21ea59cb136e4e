package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shaiso/Answerflow/internal/domain"
)

func TestInvoke_NoAPIKey_FailsWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient()
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL}

	result := client.Invoke(context.Background(), cfg, "gpt-4o-mini", "sys", "user")

	if result.Success() {
		t.Fatal("expected failure without API key")
	}
	if called {
		t.Error("no network call should be made without API key")
	}
	if !strings.Contains(result.Err, "LLM not configured") {
		t.Errorf("unexpected error message: %q", result.Err)
	}
}

func TestInvoke_NilConfig(t *testing.T) {
	client := NewClient()

	result := client.Invoke(context.Background(), nil, "", "sys", "user")

	if result.Success() {
		t.Fatal("expected failure with nil config")
	}
}

func TestInvoke_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header: %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["model"] != "gpt-4o" {
			t.Errorf("unexpected model: %v", req["model"])
		}
		if req["max_tokens"] != float64(1024) {
			t.Errorf("unexpected max_tokens: %v", req["max_tokens"])
		}
		msgs := req["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(msgs))
		}
		first := msgs[0].(map[string]any)
		if first["role"] != "system" {
			t.Errorf("first message must be system, got %v", first["role"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"42"}}]}`))
	}))
	defer srv.Close()

	client := NewClient()
	// Хвостовой слэш должен срезаться при построении URL.
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL + "/", APIKey: "secret"}

	result := client.Invoke(context.Background(), cfg, "gpt-4o", "sys", "user")

	if !result.Success() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
	if result.Content != "42" {
		t.Errorf("expected content %q, got %q", "42", result.Content)
	}
}

func TestInvoke_EmptyModelFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != domain.DefaultModel {
			t.Errorf("expected default model, got %v", req["model"])
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL, APIKey: "k"}

	result := client.Invoke(context.Background(), cfg, "", "sys", "user")
	if !result.Success() {
		t.Fatalf("unexpected failure: %s", result.Err)
	}
}

func TestInvoke_MissingContentIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{}}]}`))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL, APIKey: "k"}

	result := client.Invoke(context.Background(), cfg, "m", "sys", "user")

	if !result.Success() {
		t.Fatalf("envelope without content is still a success, got error: %s", result.Err)
	}
	if result.Content != "[no content]" {
		t.Errorf("expected %q, got %q", "[no content]", result.Content)
	}
}

func TestInvoke_NonStringContentIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":{"parts":["x"]}}}]}`))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL, APIKey: "k"}

	result := client.Invoke(context.Background(), cfg, "m", "sys", "user")

	if !result.Success() || result.Content != "[no content]" {
		t.Errorf("expected success with [no content], got %+v", result)
	}
}

func TestInvoke_ProviderError(t *testing.T) {
	longBody := strings.Repeat("x", 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(longBody))
	}))
	defer srv.Close()

	client := NewClient()
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL, APIKey: "k"}

	result := client.Invoke(context.Background(), cfg, "m", "sys", "user")

	if result.Success() {
		t.Fatal("expected failure on HTTP 500")
	}
	if !strings.HasPrefix(result.Err, "API error: 500 ") {
		t.Errorf("unexpected error prefix: %q", result.Err)
	}
	// Тело усекается до 500 символов.
	body := strings.TrimPrefix(result.Err, "API error: 500 ")
	if len(body) != 500 {
		t.Errorf("expected body truncated to 500 chars, got %d", len(body))
	}
}

func TestInvoke_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер закрыт — соединение откажет

	client := NewClient()
	cfg := &domain.LLMConfig{APIBaseURL: srv.URL, APIKey: "k"}

	result := client.Invoke(context.Background(), cfg, "m", "sys", "user")

	if result.Success() {
		t.Fatal("expected transport failure")
	}
	if result.Err == "" {
		t.Error("transport failure must carry a message")
	}
}
