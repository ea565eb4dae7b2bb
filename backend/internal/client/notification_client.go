package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kazz187/fieldguild/backend/internal/notification"
)

func (c *Client) ListNotifications(ctx context.Context, filter notification.ListFilter) (*notification.ListNotificationsResponse, error) {
	q := url.Values{}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	if filter.View != "" {
		q.Set("view", string(filter.View))
	}
	path := "/api/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp notification.ListNotificationsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (*notification.Notification, error) {
	var resp notification.NotificationResponse
	if err := c.do(ctx, http.MethodPost, "/api/notifications/"+url.PathEscape(id)+"/read", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notification, nil
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var resp notification.MarkAllReadResponse
	if err := c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}
