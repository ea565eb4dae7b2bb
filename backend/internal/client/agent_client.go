package client

import (
	"context"
	"net/http"

	"github.com/kazz187/fieldguild/backend/internal/agent"
	"github.com/kazz187/fieldguild/backend/internal/chat"
)

// Chat sends one chat turn.
func (c *Client) Chat(ctx context.Context, message string) (*chat.Reply, error) {
	var resp chat.Reply
	if err := c.do(ctx, http.MethodPost, "/api/chat", &chat.SendRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChatHistory(ctx context.Context) ([]*chat.Message, error) {
	var resp chat.HistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) ResetChat(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/history", nil, nil)
}

// ParseActions asks the server which actions a message would trigger.
func (c *Client) ParseActions(ctx context.Context, message string) ([]agent.Action, error) {
	var resp agent.ParseResponse
	if err := c.do(ctx, http.MethodPost, "/api/agent/parse", &agent.ParseRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// ExecuteActions runs actions, or the ones extracted from message when
// actions is empty, without calling the model.
func (c *Client) ExecuteActions(ctx context.Context, message string, actions []agent.Action) (*agent.ExecuteResponse, error) {
	var resp agent.ExecuteResponse
	req := &agent.ExecuteRequest{Message: message, Actions: actions}
	if err := c.do(ctx, http.MethodPost, "/api/agent/execute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
