package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"

	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

// ServiceName is the gRPC health service name of the dashboard API.
const ServiceName = "fieldguild.v1.Dashboard"

const (
	healthProbePath = "health/probe"
	healthTimeout   = 3 * time.Second
)

// StorageChecker reports the API as serving while its store answers.
type StorageChecker struct {
	store storage.Storage
}

func NewStorageChecker(store storage.Storage) *StorageChecker {
	return &StorageChecker{store: store}
}

func (c *StorageChecker) Check(ctx context.Context, req *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if req.Service != "" && req.Service != ServiceName {
		return nil, connect.NewError(connect.CodeNotFound, nil)
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if _, err := c.store.Exists(ctx, healthProbePath); err != nil {
		slog.WarnContext(ctx, "storage health probe failed", "error", err)
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// HealthChecker serves /health from the same check as the gRPC endpoint.
type HealthChecker struct {
	checker grpchealth.Checker
}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := hc.checker.Check(r.Context(), &grpchealth.CheckRequest{})
	if err != nil || resp.Status != grpchealth.StatusServing {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
