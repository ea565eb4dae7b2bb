package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "github.com/kazz187/fieldguild/backend/internal"
	"github.com/kazz187/fieldguild/backend/internal/client"
	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func newTools(t *testing.T) *Tools {
	t.Helper()
	env := &config.Env{}
	env.LLMEnv = config.LLMEnv{Provider: "canned", Timeout: time.Second}
	env.SessionEnv = config.SessionEnv{SeedSampleData: true, AdvisorReplyDelay: time.Hour}
	app := server.NewApp(env, storage.NewMemoryStorage(), storage.NewMemoryStorage())
	srv := httptest.NewServer(app.Server.Handler())
	t.Cleanup(func() {
		srv.Close()
		app.Advisor.Close()
	})
	return NewTools(client.New(srv.URL, client.WithSession("mcp")))
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestAddAndCompleteTask(t *testing.T) {
	ctx := context.Background()
	tools := newTools(t)

	res, err := tools.AddTask(ctx, request(map[string]any{"title": "Check the irrigation pump", "date": "2025-04-14", "urgent": true}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	var created task.Task
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &created))
	assert.Equal(t, task.StatusUrgent, created.Status)

	res, err = tools.CompleteTask(ctx, request(map[string]any{"id": created.ID}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = tools.ListTasks(ctx, request(map[string]any{"status": "completed"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), created.ID)
}

func TestMissingArguments(t *testing.T) {
	ctx := context.Background()
	tools := newTools(t)

	for name, handler := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"chat":      tools.Chat,
		"parse":     tools.ParseActions,
		"add_task":  tools.AddTask,
		"complete":  tools.CompleteTask,
		"add_event": tools.AddEvent,
	} {
		res, err := handler(ctx, request(nil))
		require.NoError(t, err, name)
		assert.True(t, res.IsError, name)
	}
}

func TestAddEventAndList(t *testing.T) {
	ctx := context.Background()
	tools := newTools(t)

	res, err := tools.AddEvent(ctx, request(map[string]any{"title": "Harvest barley", "date": "2030-06-02", "type": "harvesting"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	res, err = tools.ListEvents(ctx, request(map[string]any{"from": "2030-06-01", "to": "2030-06-02"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "Harvest barley")
	assert.Contains(t, text(t, res), `"total": 1`)
}

func TestServerErrorsBecomeToolErrors(t *testing.T) {
	res, err := newTools(t).CompleteTask(context.Background(), request(map[string]any{"id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not_found")
}
