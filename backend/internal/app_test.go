package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	env := &config.Env{}
	env.BaseEnv.APIKey = "secret"
	env.LLMEnv = config.LLMEnv{Provider: "canned", Timeout: time.Second}
	env.SessionEnv = config.SessionEnv{TTL: time.Hour, SeedSampleData: true, AdvisorReplyDelay: time.Hour}
	app := NewApp(env, storage.NewMemoryStorage(), storage.NewMemoryStorage())
	srv := httptest.NewServer(app.Server.Handler())
	t.Cleanup(func() {
		srv.Close()
		app.Advisor.Close()
	})
	return app, srv
}

func call(t *testing.T, srv *httptest.Server, method, path, session, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "secret")
	if session != "" {
		req.Header.Set(sessionid.Header, session)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func listTasks(t *testing.T, srv *httptest.Server, session string) []*task.Task {
	t.Helper()
	resp := call(t, srv, http.MethodGet, "/api/tasks", session, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out task.ListTasksResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Tasks
}

func TestHealthAndAPIKey(t *testing.T) {
	_, srv := newTestApp(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tasks")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	for _, key := range []string{"secre", "secret2", "SECRET"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
		require.NoError(t, err)
		req.Header.Set("X-API-Key", key)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, key)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tasks?api_key=secret")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	_, srv := newTestApp(t)
	resp := call(t, srv, http.MethodGet, "/api/silos", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body["code"])
}

func TestInvalidSession(t *testing.T) {
	_, srv := newTestApp(t)
	resp := call(t, srv, http.MethodGet, "/api/tasks", "no/slashes", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionsAreSeededAndIsolated(t *testing.T) {
	app, srv := newTestApp(t)

	seeded := len(listTasks(t, srv, "north"))
	assert.Len(t, task.Samples(time.Now()), seeded)

	resp := call(t, srv, http.MethodPost, "/api/tasks", "north", `{"title":"Mend the east fence","date":"2025-04-11"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Len(t, listTasks(t, srv, "north"), seeded+1)
	assert.Len(t, listTasks(t, srv, "south"), seeded)
	assert.Equal(t, 2, app.Registry.Len())
}

func TestChatWithCannedProvider(t *testing.T) {
	_, srv := newTestApp(t)
	resp := call(t, srv, http.MethodPost, "/api/chat", "north", `{"message":"How should I water my tomatoes?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.NotEmpty(t, reply.Message.Content)
}
