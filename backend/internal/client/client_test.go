package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "github.com/kazz187/fieldguild/backend/internal"
	"github.com/kazz187/fieldguild/backend/internal/client"
	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func newClient(t *testing.T, opts ...client.Option) *client.Client {
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
	return client.New(srv.URL, opts...)
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, client.WithSession("north"))
	require.NoError(t, c.Health(ctx))

	before, err := c.ListTasks(ctx, "", "")
	require.NoError(t, err)

	created, err := c.CreateTask(ctx, &task.CreateTaskRequest{Title: "Mend the east fence", Date: "2025-04-11"})
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, created.Status)

	done, err := c.CompleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, done.Status)

	completed, err := c.ListTasks(ctx, task.StatusCompleted, "")
	require.NoError(t, err)
	assert.Contains(t, taskIDs(completed), created.ID)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	after, err := c.ListTasks(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestAPIError(t *testing.T) {
	c := newClient(t)
	err := c.DeleteTask(context.Background(), "missing")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	list, err := c.ListNotifications(ctx, notification.ListFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, list.Notifications)
	assert.Equal(t, len(list.Notifications), list.UnreadCount)

	n, err := c.MarkNotificationRead(ctx, list.Notifications[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	updated, err := c.MarkAllNotificationsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(list.Notifications)-1, updated)
}

func TestParseActions(t *testing.T) {
	c := newClient(t)
	actions, err := c.ParseActions(context.Background(), "What should I plant this spring?")
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func taskIDs(tasks []*task.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
