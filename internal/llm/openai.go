package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/raychel/internal/provider"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = config.httpClient(defaultTimeout)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Generate completes a prompt using OpenAI's Chat Completions API
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	model := pick(req.Model, p.config.Model, openai.GPT4oMini)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(defaultTimeout))
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: pick(req.System, systemPrompt),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   pickInt(req.MaxTokens, p.config.MaxTokens, defaultMaxTokens),
		Temperature: float32(pickFloat(req.Temperature, p.config.Temperature)),
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", openAIStatus(err))
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in OpenAI response", provider.ErrDecode)
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// openAIStatus surfaces the HTTP status carried by go-openai errors as a
// *provider.StatusError so the failure can be classified.
func openAIStatus(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return errors.Join(&provider.StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return errors.Join(&provider.StatusError{StatusCode: reqErr.HTTPStatusCode}, err)
	}
	return err
}
