package clog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttributes(t *testing.T) {
	ctx := ContextWithSlog(context.Background())
	AddAttributes(ctx, map[string]any{"session_id": "abc", "nested": map[string]any{"a": 1}})
	AddAttributes(ctx, map[string]any{"nested": map[string]any{"b": 2}})
	AddError(ctx, errors.New("boom"))

	attrs := GetAttributes(ctx)
	assert.Equal(t, "abc", attrs["session_id"])
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, attrs["nested"])
	require.Error(t, GetError(ctx))
	assert.Equal(t, "boom", GetError(ctx).Error())

	// No slog context: calls are no-ops.
	AddAttribute(context.Background(), "x", 1)
	assert.Nil(t, GetAttributes(context.Background()))
}

func TestAttributesHandlerAddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewAttributesHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := ContextWithSlog(context.Background())
	AddAttribute(ctx, "session_id", "farm-1")
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"session_id":"farm-1"`)
}

func TestSlogChiMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(NewAttributesHandler(slog.NewJSONHandler(&buf, nil))))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := SlogChiMiddleware(WithChiFilter(DefaultHealthCheckFilter))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/x", nil))
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"path":"/api/tasks/x"`)

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())
}

func TestHTTPTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHTTPTextHandler(&buf, WithColor(false), WithLevel(slog.LevelInfo)))

	logger.Debug("hidden")
	logger.Info("OK", "method", "GET", "path", "/api/tasks", "status", 200, "bytes_written", 10)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "GET /api/tasks 200 OK")
	assert.Contains(t, out, "    bytes_written=10")
}

func TestHTTPStatusToLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, HTTPStatusToLevel(200))
	assert.Equal(t, LevelInfo, HTTPStatusToLevel(499))
	assert.Equal(t, LevelWarn, HTTPStatusToLevel(404))
	assert.Equal(t, LevelError, HTTPStatusToLevel(503))
}
