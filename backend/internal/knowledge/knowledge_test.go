package knowledge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/knowledge"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestFarmDocCache(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Write(ctx, "docs/farm.txt", []byte("North field: loam")))
	clock := &fakeClock{now: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
	svc := knowledge.NewService(store, &config.KnowledgeEnv{FarmDocPath: "docs/farm.txt", CacheTTL: time.Minute}, knowledge.WithClock(clock.Now))

	doc, err := svc.FarmDoc(ctx)
	require.NoError(t, err)
	assert.Equal(t, "North field: loam", doc)

	require.NoError(t, store.Write(ctx, "docs/farm.txt", []byte("North field: clay")))
	doc, err = svc.FarmDoc(ctx)
	require.NoError(t, err)
	assert.Equal(t, "North field: loam", doc, "served from cache")

	clock.now = clock.now.Add(2 * time.Minute)
	doc, err = svc.FarmDoc(ctx)
	require.NoError(t, err)
	assert.Equal(t, "North field: clay", doc)

	require.NoError(t, store.Write(ctx, "docs/farm.txt", []byte("North field: sand")))
	svc.InvalidateFarmDoc(ctx)
	doc, err = svc.FarmDoc(ctx)
	require.NoError(t, err)
	assert.Equal(t, "North field: sand", doc)
}

func TestFarmDocMissing(t *testing.T) {
	svc := knowledge.NewService(storage.NewMemoryStorage(), &config.KnowledgeEnv{FarmDocPath: "docs/farm.txt"})
	_, err := svc.FarmDoc(context.Background())
	assert.True(t, cerr.IsCode(err, cerr.NotFound))

	svc = knowledge.NewService(storage.NewMemoryStorage(), &config.KnowledgeEnv{})
	_, err = svc.FarmDoc(context.Background())
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestKnowledgeBase(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("Rotate legumes every third season."))
	}))
	defer srv.Close()

	svc := knowledge.NewService(storage.NewMemoryStorage(), &config.KnowledgeEnv{KnowledgeBaseURL: srv.URL, CacheTTL: time.Hour}, knowledge.WithHTTPClient(srv.Client()))
	for range 3 {
		kb, err := svc.KnowledgeBase(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Rotate legumes every third season.", kb)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestKnowledgeBaseUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := knowledge.NewService(storage.NewMemoryStorage(), &config.KnowledgeEnv{KnowledgeBaseURL: srv.URL}, knowledge.WithHTTPClient(srv.Client()))
	_, err := svc.KnowledgeBase(context.Background())
	assert.True(t, cerr.IsCode(err, cerr.Unavailable))
}

func TestServer(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Write(ctx, "farm.txt", []byte("Soil pH 6.5")))
	svc := knowledge.NewService(store, &config.KnowledgeEnv{FarmDocPath: "farm.txt"})

	r := chi.NewRouter()
	r.Use(cerr.NewConvertErrorChiMiddleware())
	knowledge.NewServer(svc).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/knowledge/farm-doc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp knowledge.FarmDocResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Soil pH 6.5", resp.DocumentContent)
	assert.Equal(t, "Farm document retrieved successfully", resp.Message)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/knowledge/external", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "farm.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	changed := make(chan string, 8)
	w := knowledge.NewWatcher(dir, func(_ context.Context, p string) { changed <- p })
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	select {
	case p := <-changed:
		assert.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
