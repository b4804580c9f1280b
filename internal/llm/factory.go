package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/raychel/internal/model"
)

// NewProvider creates a new knowledge-model provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "ollama", "":
		return NewOllamaProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: ollama, openai, anthropic)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig, client *http.Client) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		HTTPClient:  client,
	}
}
