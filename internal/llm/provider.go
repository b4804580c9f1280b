package llm

import (
	"context"
	"net/http"
	"time"
)

// Provider defines the interface for knowledge-model providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate completes a single prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one completion
type GenerateRequest struct {
	// Prompt is the full user prompt, already carrying any grounding text
	Prompt string

	// System overrides the default system instruction when set
	System string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; zero means the provider default
	Temperature float64
}

// GenerateResponse contains the model output
type GenerateResponse struct {
	// Text is the raw completion, trimmed of surrounding whitespace
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds knowledge-model provider configuration
type Config struct {
	// Provider name: "ollama", "openai", "anthropic"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., a remote Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float64

	// HTTPClient carries proxy and tracing settings; its timeout is replaced
	// by Timeout
	HTTPClient *http.Client
}

const (
	defaultMaxTokens = 512
	defaultTimeout   = 30 * time.Second

	systemPrompt = "You are a helpful assistant. Answer accurately and briefly, and never invent facts."
)

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

// httpClient returns a copy of the configured client with the provider
// timeout applied, so a shared client is never mutated.
func (c Config) httpClient(fallback time.Duration) *http.Client {
	client := &http.Client{}
	if c.HTTPClient != nil {
		cp := *c.HTTPClient
		client = &cp
	}
	client.Timeout = c.timeout(fallback)
	return client
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pickInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func pickFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
