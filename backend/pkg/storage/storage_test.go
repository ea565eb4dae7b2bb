package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "tasks/a.yaml", []byte("a")))
	require.NoError(t, s.Write(ctx, "tasks/b.yaml", []byte("b")))
	require.NoError(t, s.Write(ctx, "tasks/nested/c.yaml", []byte("c")))

	data, err := s.Read(ctx, "tasks/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	paths, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tasks/a.yaml", "tasks/b.yaml"}, paths)

	ok, err := s.Exists(ctx, "tasks/b.yaml")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "tasks/b.yaml"))
	ok, err = s.Exists(ctx, "tasks/b.yaml")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Read(ctx, "tasks/b.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "tasks/b.yaml"), ErrNotFound)

	paths, err = s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestLocalStorage(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestPrefixedStorage(t *testing.T) {
	base := NewMemoryStorage()
	exerciseStorage(t, NewPrefixedStorage(base, "sessions/one"))

	ctx := context.Background()
	other := NewPrefixedStorage(base, "sessions/two/")
	paths, err := other.List(ctx, "tasks")
	require.NoError(t, err)
	assert.Empty(t, paths)

	ok, err := base.Exists(ctx, "sessions/one/tasks/a.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStorageDeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Write(ctx, "sessions/a/tasks/1.yaml", []byte("1")))
	require.NoError(t, s.Write(ctx, "sessions/b/tasks/1.yaml", []byte("1")))

	require.NoError(t, s.DeletePrefix(ctx, "sessions/a"))

	ok, _ := s.Exists(ctx, "sessions/a/tasks/1.yaml")
	assert.False(t, ok)
	ok, _ = s.Exists(ctx, "sessions/b/tasks/1.yaml")
	assert.True(t, ok)
}

func TestMemoryStorageCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	buf := []byte("abc")
	require.NoError(t, s.Write(ctx, "x", buf))
	buf[0] = 'z'

	data, err := s.Read(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}
