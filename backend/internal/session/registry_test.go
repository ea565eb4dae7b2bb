package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/session"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newRegistry(base storage.Storage, seed bool, c *clock) *session.Registry {
	return session.NewRegistry(base, &config.SessionEnv{TTL: time.Hour, SeedSampleData: seed},
		session.WithClock(c.Now), session.WithLocation(time.UTC))
}

func TestGetSeedsOnce(t *testing.T) {
	ctx := context.Background()
	base := storage.NewMemoryStorage()
	c := &clock{now: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
	reg := newRegistry(base, true, c)

	ws, err := reg.Get(ctx, "farm-1")
	require.NoError(t, err)
	tasks, err := ws.Tasks.List(ctx, task.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 8)
	events, err := ws.Events.List(ctx, calendar.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 4)
	notes, err := ws.Notifications.List(ctx, notification.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, notes, 4)

	same, err := reg.Get(ctx, "farm-1")
	require.NoError(t, err)
	assert.Same(t, ws, same)

	// A second registry over the same storage must not seed again.
	again, err := newRegistry(base, true, c).Get(ctx, "farm-1")
	require.NoError(t, err)
	tasks, err = again.Tasks.List(ctx, task.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 8)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
	reg := newRegistry(storage.NewMemoryStorage(), false, c)

	a, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Get(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, a.Tasks.Create(ctx, task.New("Water field", "", task.StatusPending, c.now, c.now)))
	got, err := b.Tasks.List(ctx, task.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = reg.Get(ctx, "../etc")
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
}

func TestCurrentUsesContextSession(t *testing.T) {
	c := &clock{now: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
	reg := newRegistry(storage.NewMemoryStorage(), false, c)

	ws, err := reg.Current(sessionid.WithContext(context.Background(), "north"))
	require.NoError(t, err)
	assert.Equal(t, "north", ws.ID)

	ws, err = reg.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sessionid.Default, ws.ID)
}

func TestEvictIdleSessions(t *testing.T) {
	ctx := context.Background()
	base := storage.NewMemoryStorage()
	c := &clock{now: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
	reg := newRegistry(base, true, c)

	_, err := reg.Get(ctx, "old")
	require.NoError(t, err)
	c.now = c.now.Add(45 * time.Minute)
	_, err = reg.Get(ctx, "fresh")
	require.NoError(t, err)

	c.now = c.now.Add(30 * time.Minute)
	assert.Equal(t, []string{"old"}, reg.Evict(ctx))
	assert.Equal(t, 1, reg.Len())

	paths, err := base.List(ctx, "sessions/old/tasks")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestMiddleware(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Use(cerr.NewConvertErrorChiMiddleware())
	r.Use(session.Middleware)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		seen = sessionid.FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionid.Header, "farm-9")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "farm-9", seen)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?session=east", nil))
	assert.Equal(t, "east", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(sessionid.Header, "bad id!")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
