package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kazz187/fieldguild/backend/internal/task"
)

// ListTasks lists the session's tasks. Empty filter fields match all.
func (c *Client) ListTasks(ctx context.Context, status task.Status, view task.ViewType) ([]*task.Task, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	if view != "" {
		q.Set("view", string(view))
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp task.ListTasksResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.Task, error) {
	var resp task.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) CompleteTask(ctx context.Context, id string) (*task.Task, error) {
	var resp task.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/complete", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}
