package cerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func serve(t *testing.T, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	NewConvertErrorChiMiddleware()(h).ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareWritesResponse(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponse(r.Context(), map[string]string{"hello": "farm"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hello":"farm"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestMiddlewareWritesStatus(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponseWithStatus(r.Context(), http.StatusCreated, map[string]int{"n": 1})
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMiddlewareWritesError(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), NewError(NotFound, "task not found", nil).AddDetailMessage("id=1"))
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body httpError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Code)
	assert.Equal(t, "task not found", body.Message)
	assert.Equal(t, []string{"id=1"}, body.Details)
}

func TestMiddlewareHidesForeignErrors(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), errors.New("database password leaked"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMiddlewareNoContent(t *testing.T) {
	rec := serve(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestIsCodeAndCodeOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(ResourceExhausted, "slow down", nil))
	assert.True(t, IsCode(err, ResourceExhausted))
	assert.False(t, IsCode(err, NotFound))
	assert.Equal(t, ResourceExhausted, CodeOf(err))
	assert.Equal(t, Unknown, CodeOf(errors.New("x")))
	assert.Equal(t, OK, CodeOf(nil))
}

func TestCodeNames(t *testing.T) {
	assert.Equal(t, "failed_precondition", FailedPrecondition.String())
	assert.Equal(t, FailedPrecondition, ParseCode("failed_precondition"))
	assert.Equal(t, Unknown, ParseCode("nope"))
	assert.Equal(t, http.StatusTooManyRequests, ResourceExhausted.HTTPCode())
}

func TestWrapStorageErrors(t *testing.T) {
	notFound := fmt.Errorf("tasks/1.yaml: %w", storage.ErrNotFound)
	assert.True(t, IsCode(WrapStorageReadError("task", notFound), NotFound))
	assert.True(t, IsCode(WrapStorageReadError("task", errors.New("disk")), Internal))
	assert.True(t, IsCode(WrapStorageDeleteError("task", notFound), NotFound))
	assert.True(t, IsCode(WrapStorageWriteError("task", errors.New("disk")), Internal))
}

func TestDecodeJSONBody(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Water field"}`))
	require.NoError(t, DecodeJSONBody(req, &v))
	assert.Equal(t, "Water field", v.Title)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.True(t, IsCode(DecodeJSONBody(req, &v), InvalidArgument))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, IsCode(DecodeJSONBody(req, &v), InvalidArgument))
}
