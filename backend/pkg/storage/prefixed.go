package storage

import (
	"context"
	"strings"
)

// PrefixedStorage scopes every path of an underlying Storage below a fixed
// prefix, so one backend can hold many isolated workspaces.
type PrefixedStorage struct {
	base   Storage
	prefix string
}

func NewPrefixedStorage(base Storage, prefix string) *PrefixedStorage {
	return &PrefixedStorage{
		base:   base,
		prefix: strings.Trim(prefix, "/") + "/",
	}
}

func (s *PrefixedStorage) Prefix() string {
	return s.prefix
}

func (s *PrefixedStorage) full(path string) string {
	return s.prefix + strings.TrimPrefix(path, "/")
}

func (s *PrefixedStorage) Read(ctx context.Context, path string) ([]byte, error) {
	return s.base.Read(ctx, s.full(path))
}

func (s *PrefixedStorage) Write(ctx context.Context, path string, data []byte) error {
	return s.base.Write(ctx, s.full(path), data)
}

func (s *PrefixedStorage) Delete(ctx context.Context, path string) error {
	return s.base.Delete(ctx, s.full(path))
}

func (s *PrefixedStorage) List(ctx context.Context, prefix string) ([]string, error) {
	paths, err := s.base.List(ctx, s.full(prefix))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, strings.TrimPrefix(p, s.prefix))
	}
	return out, nil
}

func (s *PrefixedStorage) Exists(ctx context.Context, path string) (bool, error) {
	return s.base.Exists(ctx, s.full(path))
}
