package knowledge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

const maxKnowledgeBaseSize = 4 << 20

type entry struct {
	content string
	fetched time.Time
	valid   bool
}

func (e *entry) fresh(now time.Time, ttl time.Duration) bool {
	return e.valid && (ttl <= 0 || now.Sub(e.fetched) < ttl)
}

// Service serves the farm document and the external knowledge base. Both
// are cached for the configured TTL.
type Service struct {
	store   storage.Storage
	docPath string
	kbURL   string
	client  *http.Client
	ttl     time.Duration
	now     func() time.Time

	mu  sync.Mutex
	doc entry
	kb  entry
}

type Option func(*Service)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.client = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Storage, env *config.KnowledgeEnv, opts ...Option) *Service {
	s := &Service{
		store:   store,
		docPath: env.FarmDocPath,
		kbURL:   env.KnowledgeBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		ttl:     env.CacheTTL,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FarmDoc returns the farm document text.
func (s *Service) FarmDoc(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.doc.fresh(s.now(), s.ttl) {
		defer s.mu.Unlock()
		return s.doc.content, nil
	}
	s.mu.Unlock()

	if s.docPath == "" {
		return "", cerr.NewError(cerr.NotFound, "farm document is not configured", nil)
	}
	data, err := s.store.Read(ctx, s.docPath)
	if err != nil {
		return "", cerr.WrapStorageReadError("farm document", err)
	}

	s.mu.Lock()
	s.doc = entry{content: string(data), fetched: s.now(), valid: true}
	s.mu.Unlock()
	return string(data), nil
}

// KnowledgeBase returns the shared knowledge base fetched over HTTP.
func (s *Service) KnowledgeBase(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.kb.fresh(s.now(), s.ttl) {
		defer s.mu.Unlock()
		return s.kb.content, nil
	}
	s.mu.Unlock()

	if s.kbURL == "" {
		return "", cerr.NewError(cerr.NotFound, "knowledge base is not configured", nil)
	}
	content, err := s.fetch(ctx)
	if err != nil {
		return "", cerr.NewError(cerr.Unavailable, "failed to retrieve external knowledge base", err)
	}

	s.mu.Lock()
	s.kb = entry{content: content, fetched: s.now(), valid: true}
	s.mu.Unlock()
	return content, nil
}

func (s *Service) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.kbURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("knowledge base: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKnowledgeBaseSize))
	if err != nil {
		return "", fmt.Errorf("knowledge base: read body: %w", err)
	}
	return string(body), nil
}

// InvalidateFarmDoc drops the cached farm document.
func (s *Service) InvalidateFarmDoc(ctx context.Context) {
	s.mu.Lock()
	s.doc = entry{}
	s.mu.Unlock()
	slog.InfoContext(ctx, "farm document cache invalidated", "path", s.docPath)
}
