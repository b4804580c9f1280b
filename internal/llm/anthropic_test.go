package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/raychel/internal/provider"
)

func TestAnthropicProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.System != systemPrompt {
			t.Errorf("Expected default system prompt, got %q", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "Who wrote Hamlet?" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		resp := anthropicResponse{
			ID:   "msg_123",
			Type: "message",
			Role: "assistant",
			Content: []anthropicContent{
				{Type: "text", Text: "William Shakespeare "},
				{Type: "text", Text: "wrote Hamlet."},
			},
			Model: "claude-3-5-haiku-latest",
			Usage: anthropicUsage{InputTokens: 50, OutputTokens: 50},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	p, err := NewAnthropicProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := p.Generate(context.Background(), GenerateRequest{Prompt: "Who wrote Hamlet?"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != "William Shakespeare wrote Hamlet." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestAnthropicProvider_MissingKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("Expected error for missing API key")
	}
}

func TestAnthropicProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "api_error", "message": "Internal Server Error"}}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Internal Server Error") {
		t.Errorf("Expected error message to contain 'Internal Server Error', got %v", err)
	}
	if got := provider.Classify(err); got != provider.ReasonNetwork {
		t.Errorf("Classify() = %s, want network", got)
	}
}

func TestAnthropicProvider_Generate_BadKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "wrong", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if got := provider.Classify(err); got != provider.ReasonBadCredential {
		t.Errorf("Classify() = %s, want bad-credential (err: %v)", got, err)
	}
}

func TestAnthropicProvider_Generate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, provider.ErrDecode) {
		t.Fatalf("Expected ErrDecode, got %v", err)
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "Hi"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !p.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if p.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
