// Package mcpserver exposes the resolver as a Model Context Protocol tool so
// that agent hosts can ask raychel questions over stdio.
package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ppiankov/raychel/internal/model"
)

// ToolName is the name of the single tool the server registers
const ToolName = "ask"

// Resolver answers one question
type Resolver interface {
	Resolve(ctx context.Context, question string) model.Resolution
}

// AskInput is the argument of the ask tool
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question to answer"`
}

// AskOutput is the structured result of the ask tool
type AskOutput struct {
	Answer   string `json:"answer" jsonschema:"the answer text"`
	Category string `json:"category" jsonschema:"topical label: Weather, Sports, Politics, General Knowledge or Other"`
	Tool     string `json:"tool" jsonschema:"strategy that produced the answer: Weather, Search or LLM"`
}

var errEmptyQuestion = errors.New("question is required")

// New builds an MCP server with the ask tool registered
func New(resolver Resolver, version string, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "raychel", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Answer a question. Weather questions use live weather data, recent events use web search, everything else uses the knowledge model.",
	}, askHandler(resolver, logger))
	return server
}

// Run serves over stdin/stdout until the client disconnects or ctx ends
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func askHandler(resolver Resolver, logger *zap.Logger) mcp.ToolHandlerFor[AskInput, AskOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
		question := strings.TrimSpace(in.Question)
		if question == "" {
			return nil, AskOutput{}, errEmptyQuestion
		}

		res := resolver.Resolve(ctx, question)
		logger.Debug("mcp ask",
			zap.String("id", res.ID),
			zap.String("tool", string(res.Tool)),
			zap.Duration("elapsed", res.Elapsed),
		)

		out := AskOutput{
			Answer:   res.Answer,
			Category: string(res.Category),
			Tool:     string(res.Tool),
		}
		result := &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Answer}},
		}
		return result, out, nil
	}
}
