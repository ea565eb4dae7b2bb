package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/advisor"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	calrepo "github.com/kazz187/fieldguild/backend/internal/calendar/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/internal/chat"
	chatrepo "github.com/kazz187/fieldguild/backend/internal/chat/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/dashboard"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	notifrepo "github.com/kazz187/fieldguild/backend/internal/notification/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/internal/task"
	taskrepo "github.com/kazz187/fieldguild/backend/internal/task/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

const seededMarker = "seeded"

// Workspace holds the repositories of one dashboard session.
type Workspace struct {
	ID            string
	Storage       *storage.PrefixedStorage
	Tasks         task.Repository
	Events        calendar.Repository
	Notifications notification.Repository
	Messages      chat.Repository

	lastUsed time.Time
}

// prefixDeleter is implemented by backends whose data should not outlive
// an evicted session.
type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// Registry opens session workspaces on first use and forgets idle ones.
type Registry struct {
	base storage.Storage
	seed bool
	ttl  time.Duration
	now  func() time.Time
	loc  *time.Location

	mu       sync.Mutex
	sessions map[string]*Workspace
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(r *Registry) { r.loc = loc }
}

func NewRegistry(base storage.Storage, env *config.SessionEnv, opts ...Option) *Registry {
	r := &Registry{
		base:     base,
		seed:     env.SeedSampleData,
		ttl:      env.TTL,
		now:      time.Now,
		loc:      time.Local,
		sessions: make(map[string]*Workspace),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func prefix(id string) string {
	return "sessions/" + id
}

// Get returns the workspace of session id, creating and seeding it on
// first use.
func (r *Registry) Get(ctx context.Context, id string) (*Workspace, error) {
	if !sessionid.Valid(id) {
		return nil, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid session id %q", id), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.sessions[id]; ok {
		ws.lastUsed = r.now()
		return ws, nil
	}

	s := storage.NewPrefixedStorage(r.base, prefix(id))
	ws := &Workspace{
		ID:            id,
		Storage:       s,
		Tasks:         taskrepo.NewYAMLRepository(s),
		Events:        calrepo.NewYAMLRepository(s),
		Notifications: notifrepo.NewYAMLRepository(s),
		Messages:      chatrepo.NewYAMLRepository(s),
		lastUsed:      r.now(),
	}
	if r.seed {
		if err := r.seedOnce(ctx, ws); err != nil {
			return nil, err
		}
	}
	r.sessions[id] = ws
	slog.DebugContext(ctx, "session opened", "session_id", id)
	return ws, nil
}

// Current returns the workspace of the session bound to ctx.
func (r *Registry) Current(ctx context.Context) (*Workspace, error) {
	return r.Get(ctx, sessionid.FromContext(ctx))
}

func (r *Registry) seedOnce(ctx context.Context, ws *Workspace) error {
	done, err := ws.Storage.Exists(ctx, seededMarker)
	if err != nil {
		return cerr.WrapStorageReadError("session", err)
	}
	if done {
		return nil
	}
	now := r.now()
	for _, t := range task.Samples(now) {
		if err := ws.Tasks.Create(ctx, t); err != nil {
			return err
		}
	}
	for _, e := range calendar.Samples(now, r.loc) {
		if err := ws.Events.Create(ctx, e); err != nil {
			return err
		}
	}
	for _, n := range notification.Samples(now) {
		if err := ws.Notifications.Create(ctx, n); err != nil {
			return err
		}
	}
	if err := ws.Storage.Write(ctx, seededMarker, []byte(now.Format(time.RFC3339))); err != nil {
		return cerr.WrapStorageWriteError("session", err)
	}
	slog.InfoContext(ctx, "session seeded with sample data", "session_id", ws.ID)
	return nil
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict closes sessions idle for longer than the TTL and returns their
// IDs. Data of an in-memory backend is dropped with them.
func (r *Registry) Evict(ctx context.Context) []string {
	if r.ttl <= 0 {
		return nil
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var evicted []string
	for id, ws := range r.sessions {
		if ws.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	if d, ok := r.base.(prefixDeleter); ok {
		for _, id := range evicted {
			if err := d.DeletePrefix(ctx, prefix(id)); err != nil {
				slog.WarnContext(ctx, "failed to drop session data", "session_id", id, "error", err)
			}
		}
	}
	for _, id := range evicted {
		slog.InfoContext(ctx, "session evicted", "session_id", id)
	}
	return evicted
}

// Run evicts idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	if r.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	interval := r.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Evict(ctx)
		}
	}
}

func (r *Registry) Tasks(ctx context.Context) (task.Repository, error) {
	ws, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	return ws.Tasks, nil
}

func (r *Registry) Events(ctx context.Context) (calendar.Repository, error) {
	ws, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	return ws.Events, nil
}

func (r *Registry) Notifications(ctx context.Context) (notification.Repository, error) {
	ws, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	return ws.Notifications, nil
}

func (r *Registry) Chat(ctx context.Context) (*chat.Workspace, error) {
	ws, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &chat.Workspace{Tasks: ws.Tasks, Events: ws.Events, Messages: ws.Messages}, nil
}

func (r *Registry) Advisor(ctx context.Context) (*advisor.Workspace, error) {
	ws, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &advisor.Workspace{Notifications: ws.Notifications, Events: ws.Events}, nil
}

func (r *Registry) Dashboard(ctx context.Context) (*dashboard.Workspace, error) {
	ws, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &dashboard.Workspace{Tasks: ws.Tasks, Events: ws.Events, Notifications: ws.Notifications}, nil
}
