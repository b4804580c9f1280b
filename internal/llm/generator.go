package llm

import (
	"context"

	"github.com/ppiankov/raychel/internal/provider"
)

// Generator adapts a Provider to the single-prompt call the router makes.
// Failures come back as *provider.Error.
type Generator struct {
	provider Provider
	config   Config
}

// NewGenerator wraps p. Model, token and temperature settings from config
// apply to every request.
func NewGenerator(p Provider, config Config) *Generator {
	return &Generator{provider: p, config: config}
}

// NewGeneratorFromConfig builds the configured provider and wraps it
func NewGeneratorFromConfig(config Config) (*Generator, error) {
	p, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return NewGenerator(p, config), nil
}

// Name returns the wrapped provider's name
func (g *Generator) Name() string {
	return g.provider.Name()
}

// Available reports whether the wrapped provider answers
func (g *Generator) Available(ctx context.Context) bool {
	return g.provider.IsAvailable(ctx)
}

// Generate returns the raw completion for prompt
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.provider.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", provider.Wrap(g.provider.Name(), "generate", "", err)
	}
	return resp.Text, nil
}
