package feed_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/feed"
	"github.com/kazz187/fieldguild/backend/internal/session"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

func TestFeedStreamsSessionEvents(t *testing.T) {
	bus := eventbus.New()
	r := chi.NewRouter()
	r.Use(cerr.NewConvertErrorChiMiddleware())
	r.Use(session.Middleware)
	feed.NewServer(bus).Routes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/feed?types=task.created,notification.created", nil)
	require.NoError(t, err)
	req.Header.Set(sessionid.Header, "north")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	bus.PublishNew(eventbus.TypeTaskCreated, "south", "t-0", "other session", nil)
	bus.PublishNew(eventbus.TypeTaskDeleted, "north", "t-1", "filtered type", nil)
	bus.PublishNew(eventbus.TypeTaskCreated, "north", "t-2", "Water field", nil)

	var eventLine, dataLine string
	for dataLine == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		switch {
		case strings.HasPrefix(line, "event: "):
			eventLine = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			dataLine = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
	assert.Equal(t, "task.created", eventLine)
	var got eventbus.Event
	require.NoError(t, json.Unmarshal([]byte(dataLine), &got))
	assert.Equal(t, "t-2", got.ResourceID)
	assert.Equal(t, "north", got.SessionID)
}
