package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kazz187/fieldguild/backend/internal/agent"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/client"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/task"
)

// Tools exposes the dashboard API as MCP tools.
type Tools struct {
	client *client.Client
}

func NewTools(c *client.Client) *Tools {
	return &Tools{client: c}
}

func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("farm_chat",
		mcp.WithDescription("Send a message to Agnes, the farm assistant. Task and calendar requests in the message are carried out before she answers."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message text")),
	), t.Chat)

	s.AddTool(mcp.NewTool("farm_parse_actions",
		mcp.WithDescription("Show which task and calendar actions a message would trigger, without changing anything."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message text")),
	), t.ParseActions)

	s.AddTool(mcp.NewTool("farm_execute_actions",
		mcp.WithDescription("Carry out the task and calendar actions found in a message, without asking the model."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Message text")),
	), t.ExecuteActions)

	s.AddTool(mcp.NewTool("farm_list_tasks",
		mcp.WithDescription("List farm tasks."),
		mcp.WithString("status", mcp.Description("Filter by status"), mcp.Enum("pending", "urgent", "completed")),
		mcp.WithString("view", mcp.Description("Filter by audience"), mcp.Enum("farmer", "advisor")),
	), t.ListTasks)

	s.AddTool(mcp.NewTool("farm_add_task",
		mcp.WithDescription("Add a farm task."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("description", mcp.Description("Task description")),
		mcp.WithString("date", mcp.Description("Due date YYYY-MM-DD, today by default")),
		mcp.WithBoolean("urgent", mcp.Description("Mark the task as urgent")),
	), t.AddTask)

	s.AddTool(mcp.NewTool("farm_complete_task",
		mcp.WithDescription("Mark a farm task as completed."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
	), t.CompleteTask)

	s.AddTool(mcp.NewTool("farm_list_events",
		mcp.WithDescription("List calendar events, optionally between two days."),
		mcp.WithString("from", mcp.Description("First day YYYY-MM-DD")),
		mcp.WithString("to", mcp.Description("Last day YYYY-MM-DD")),
		mcp.WithString("type", mcp.Description("Event type, such as irrigation or harvesting")),
	), t.ListEvents)

	s.AddTool(mcp.NewTool("farm_add_event",
		mcp.WithDescription("Add a calendar event."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Event title")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day YYYY-MM-DD")),
		mcp.WithString("type", mcp.Description("Event type, other by default")),
		mcp.WithString("description", mcp.Description("Event description")),
	), t.AddEvent)

	s.AddTool(mcp.NewTool("farm_list_notifications",
		mcp.WithDescription("List notifications with the unread count."),
		mcp.WithString("type", mcp.Description("Filter by type"), mcp.Enum("advisor", "order", "recommendation", "weather", "system")),
		mcp.WithString("query", mcp.Description("Search title and message")),
	), t.ListNotifications)
}

func arguments(req mcp.CallToolRequest) map[string]any {
	args, _ := req.Params.Arguments.(map[string]any)
	return args
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errorResult(action string, err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("Error %s: %v", action, err)), nil
}

func parseDay(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(task.DateLayout, v, time.Local)
}

func (t *Tools) Chat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := stringArg(arguments(req), "message")
	if message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	reply, err := t.client.Chat(ctx, message)
	if err != nil {
		return errorResult("chatting", err)
	}
	return mcp.NewToolResultText(reply.Message.Content), nil
}

func (t *Tools) ParseActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := stringArg(arguments(req), "message")
	if message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	actions, err := t.client.ParseActions(ctx, message)
	if err != nil {
		return errorResult("parsing actions", err)
	}
	return jsonResult(map[string]any{"actions": actions})
}

func (t *Tools) ExecuteActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := stringArg(arguments(req), "message")
	if message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	resp, err := t.client.ExecuteActions(ctx, message, []agent.Action{})
	if err != nil {
		return errorResult("executing actions", err)
	}
	return jsonResult(resp)
}

func (t *Tools) ListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	tasks, err := t.client.ListTasks(ctx, task.Status(stringArg(args, "status")), task.ViewType(stringArg(args, "view")))
	if err != nil {
		return errorResult("listing tasks", err)
	}
	return jsonResult(map[string]any{"tasks": tasks, "total": len(tasks)})
}

func (t *Tools) AddTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	create := &task.CreateTaskRequest{
		Title:       stringArg(args, "title"),
		Description: stringArg(args, "description"),
		Date:        stringArg(args, "date"),
	}
	if create.Title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	if boolArg(args, "urgent") {
		create.Status = task.StatusUrgent
	}
	created, err := t.client.CreateTask(ctx, create)
	if err != nil {
		return errorResult("adding task", err)
	}
	return jsonResult(created)
}

func (t *Tools) CompleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(arguments(req), "id")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	done, err := t.client.CompleteTask(ctx, id)
	if err != nil {
		return errorResult("completing task", err)
	}
	return jsonResult(done)
}

func (t *Tools) ListEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	from, err := parseDay(stringArg(args, "from"))
	if err != nil {
		return mcp.NewToolResultError("from must be YYYY-MM-DD"), nil
	}
	to, err := parseDay(stringArg(args, "to"))
	if err != nil {
		return mcp.NewToolResultError("to must be YYYY-MM-DD"), nil
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1).Add(-time.Second)
	}
	events, err := t.client.ListEvents(ctx, from, to, calendar.Type(stringArg(args, "type")))
	if err != nil {
		return errorResult("listing events", err)
	}
	return jsonResult(map[string]any{"events": events, "total": len(events)})
}

func (t *Tools) AddEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	title := stringArg(args, "title")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	day, err := parseDay(stringArg(args, "date"))
	if err != nil || day.IsZero() {
		return mcp.NewToolResultError("date must be YYYY-MM-DD"), nil
	}
	typ := calendar.Type(stringArg(args, "type"))
	if typ == "" {
		typ = calendar.TypeOther
	}
	created, err := t.client.CreateEvent(ctx, &calendar.CreateEventRequest{
		Date:        day,
		Title:       title,
		Description: stringArg(args, "description"),
		Type:        typ,
	})
	if err != nil {
		return errorResult("adding event", err)
	}
	return jsonResult(created)
}

func (t *Tools) ListNotifications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	resp, err := t.client.ListNotifications(ctx, notification.ListFilter{
		Type:  notification.Type(stringArg(args, "type")),
		Query: stringArg(args, "query"),
	})
	if err != nil {
		return errorResult("listing notifications", err)
	}
	return jsonResult(resp)
}
