package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

type brokenStorage struct {
	storage.Storage
}

func (brokenStorage) Exists(context.Context, string) (bool, error) {
	return false, errors.New("bucket unreachable")
}

func TestStorageChecker(t *testing.T) {
	ctx := context.Background()

	resp, err := NewStorageChecker(storage.NewMemoryStorage()).Check(ctx, &grpchealth.CheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpchealth.StatusServing, resp.Status)

	resp, err = NewStorageChecker(brokenStorage{}).Check(ctx, &grpchealth.CheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpchealth.StatusNotServing, resp.Status)

	_, err = NewStorageChecker(storage.NewMemoryStorage()).Check(ctx, &grpchealth.CheckRequest{Service: "barn.v1.Silo"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestHealthEndpointReflectsStorage(t *testing.T) {
	rec := httptest.NewRecorder()
	hc := &HealthChecker{checker: NewStorageChecker(brokenStorage{})}
	hc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
