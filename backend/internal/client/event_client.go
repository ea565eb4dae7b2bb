package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
)

// ListEvents lists calendar events between from and to inclusive. Zero
// bounds are open.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time, typ calendar.Type) ([]*calendar.Event, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(time.RFC3339))
	}
	if typ != "" {
		q.Set("type", string(typ))
	}
	path := "/api/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp calendar.ListEventsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

func (c *Client) CreateEvent(ctx context.Context, req *calendar.CreateEventRequest) (*calendar.Event, error) {
	var resp calendar.EventResponse
	if err := c.do(ctx, http.MethodPost, "/api/events", req, &resp); err != nil {
		return nil, err
	}
	return resp.Event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil)
}
