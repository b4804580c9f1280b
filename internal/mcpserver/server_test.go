package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ppiankov/raychel/internal/model"
)

type fakeResolver struct {
	got string
}

func (f *fakeResolver) Resolve(_ context.Context, question string) model.Resolution {
	f.got = question
	return model.Resolution{
		Answer:   "In Paris, it's currently Clear sky, 21°C (feels like 20°C), humidity 40%, wind 3 m/s.",
		Category: model.CategoryWeather,
		Tool:     model.ToolWeather,
	}
}

func TestAskHandler(t *testing.T) {
	fake := &fakeResolver{}
	handler := askHandler(fake, zaptest.NewLogger(t))

	result, out, err := handler(context.Background(), nil, AskInput{Question: " weather in Paris "})
	require.NoError(t, err)

	assert.Equal(t, "weather in Paris", fake.got)
	assert.Equal(t, "Weather", out.Category)
	assert.Equal(t, "Weather", out.Tool)
	assert.Contains(t, out.Answer, "In Paris")

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, out.Answer, text.Text)
}

func TestAskHandler_EmptyQuestion(t *testing.T) {
	fake := &fakeResolver{}
	handler := askHandler(fake, zaptest.NewLogger(t))

	_, _, err := handler(context.Background(), nil, AskInput{Question: "   "})
	assert.ErrorIs(t, err, errEmptyQuestion)
	assert.Empty(t, fake.got)
}

func TestServer_CallToolOverSession(t *testing.T) {
	ctx := context.Background()
	fake := &fakeResolver{}
	server := New(fake, "test", zaptest.NewLogger(t))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, ToolName, tools.Tools[0].Name)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"question": "weather in Paris"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "In Paris")
	assert.Equal(t, "weather in Paris", fake.got)
}
