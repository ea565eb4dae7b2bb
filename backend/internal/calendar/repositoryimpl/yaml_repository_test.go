package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func TestYAMLRepositoryPatch(t *testing.T) {
	ctx := context.Background()
	repo := NewYAMLRepository(storage.NewMemoryStorage())
	now := time.Date(2025, 4, 9, 8, 0, 0, 0, time.UTC)

	e := calendar.New("Irrigation", "", calendar.TypeIrrigation, now.AddDate(0, 0, 1), now)
	require.NoError(t, repo.Create(ctx, e))

	moved := now.AddDate(0, 0, 5)
	status := calendar.StatusInProgress
	got, err := repo.Patch(ctx, e.ID, &calendar.Patch{Date: &moved, Status: &status})
	require.NoError(t, err)
	assert.True(t, moved.Equal(got.Date))
	assert.Equal(t, "Irrigation", got.Title)
	assert.Equal(t, calendar.StatusInProgress, got.Status)

	bad := calendar.Type("rodeo")
	_, err = repo.Patch(ctx, e.ID, &calendar.Patch{Type: &bad})
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))

	_, err = repo.Patch(ctx, "missing", &calendar.Patch{})
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestYAMLRepositoryListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewYAMLRepository(storage.NewMemoryStorage())
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	samples := calendar.Samples(now, time.UTC)
	// Insert in reverse to prove the list is date ordered.
	for i := len(samples) - 1; i >= 0; i-- {
		require.NoError(t, repo.Create(ctx, samples[i]))
	}

	all, err := repo.List(ctx, calendar.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Plant Corn", all[0].Title)
	assert.Equal(t, "Apply Fertilizer", all[3].Title)

	window, err := repo.List(ctx, calendar.ListFilter{
		From: time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "Tractor Maintenance", window[0].Title)

	irrigation, err := repo.List(ctx, calendar.ListFilter{Type: calendar.TypeIrrigation})
	require.NoError(t, err)
	require.Len(t, irrigation, 1)
	assert.Equal(t, "Irrigation - South Field", irrigation[0].Title)
}

func TestYAMLRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewYAMLRepository(storage.NewMemoryStorage())
	now := time.Now()
	e := calendar.New("Tractor Maintenance", "", calendar.TypeMaintenance, now, now)
	require.NoError(t, repo.Create(ctx, e))
	require.NoError(t, repo.Delete(ctx, e.ID))
	assert.True(t, cerr.IsCode(repo.Delete(ctx, e.ID), cerr.NotFound))
}
