package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStorage implements Storage on a map. Nothing survives the process.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: make(map[string][]byte)}
}

func clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func (s *MemoryStorage) Read(_ context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[clean(p)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStorage) Write(_ context.Context, p string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.files[clean(p)] = buf
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := clean(p)
	if _, ok := s.files[key]; !ok {
		return fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	delete(s.files, key)
	return nil
}

func (s *MemoryStorage) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := clean(prefix)
	if dir != "" {
		dir += "/"
	}
	var paths []string
	for key := range s.files {
		if !strings.HasPrefix(key, dir) {
			continue
		}
		if strings.Contains(key[len(dir):], "/") {
			continue
		}
		paths = append(paths, key)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *MemoryStorage) Exists(_ context.Context, p string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[clean(p)]
	return ok, nil
}

// DeletePrefix removes every path below prefix, at any depth.
func (s *MemoryStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := clean(prefix) + "/"
	for key := range s.files {
		if strings.HasPrefix(key, dir) {
			delete(s.files, key)
		}
	}
	return nil
}
