package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/raychel/internal/provider"
)

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "Question: capital of France?\nAnswer:" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}
		if req.MaxTokens != 64 {
			t.Errorf("Expected max tokens 64, got %d", req.MaxTokens)
		}

		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1677652288,
			Model:   "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "  Paris is the capital of France.  ",
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{
				TotalTokens: 100,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		Model:     "gpt-4o-mini",
		Timeout:   5,
		MaxTokens: 64,
	}
	p, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := p.Generate(context.Background(), GenerateRequest{Prompt: "Question: capital of France?\nAnswer:"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != "Paris is the capital of France." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Fatal("Expected error for missing API key")
	}
}

func TestOpenAIProvider_Generate_APIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason provider.Reason
	}{
		{"server error", http.StatusInternalServerError, `{"error": {"message": "Internal Server Error", "type": "server_error"}}`, provider.ReasonNetwork},
		{"rate limit", http.StatusTooManyRequests, `{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`, provider.ReasonNetwork},
		{"bad key", http.StatusUnauthorized, `{"error": {"message": "Incorrect API key", "type": "invalid_request_error"}}`, provider.ReasonBadCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
			if err != nil {
				t.Fatalf("Failed to create provider: %v", err)
			}

			_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if got := provider.Classify(err); got != tt.reason {
				t.Errorf("Classify() = %s, want %s (err: %v)", got, tt.reason, err)
			}
		})
	}
}

func TestOpenAIProvider_Generate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := p.Generate(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}

func TestOpenAIProvider_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "choices": []}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, provider.ErrDecode) {
		t.Fatalf("Expected ErrDecode, got %v", err)
	}
}

func TestOpenAIProvider_Generate_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	// A caller deadline shorter than the provider timeout still applies
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = p.Generate(ctx, GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
	if got := provider.Classify(err); got != provider.ReasonTimeout {
		t.Errorf("Classify() = %s, want timeout (err: %v)", got, err)
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
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
