package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/chat"
	"github.com/kazz187/fieldguild/backend/internal/llm"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func TestYAMLRepositoryHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewYAMLRepository(storage.NewMemoryStorage())
	start := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)

	for i, content := range []string{"one", "two", "three"} {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		require.NoError(t, repo.Append(ctx, chat.NewMessage(role, content, start.Add(time.Duration(i)*time.Second))))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "one", all[0].Content)
	assert.Equal(t, llm.RoleAssistant, all[1].Role)

	last, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "two", last[0].Content)
	assert.Equal(t, "three", last[1].Content)

	assert.True(t, cerr.IsCode(repo.Append(ctx, all[0]), cerr.AlreadyExists))

	require.NoError(t, repo.Clear(ctx))
	all, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
