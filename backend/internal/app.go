package internal

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/kazz187/fieldguild/backend/internal/advisor"
	"github.com/kazz187/fieldguild/backend/internal/agent"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/chat"
	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/dashboard"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/feed"
	"github.com/kazz187/fieldguild/backend/internal/knowledge"
	"github.com/kazz187/fieldguild/backend/internal/llm"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/pushnotification"
	pushsubrepo "github.com/kazz187/fieldguild/backend/internal/pushsubscription/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/internal/session"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
	"github.com/kazz187/fieldguild/pkg/panicerr"
)

// App is the assembled server with its background workers.
type App struct {
	Server     *Server
	Bus        *eventbus.Bus
	Registry   *session.Registry
	Advisor    *advisor.Service
	Knowledge  *knowledge.Service
	Dispatcher *pushnotification.Dispatcher

	watchDir string
}

// NewApp wires every component. store holds sessions and push
// subscriptions; docs holds the farm document.
func NewApp(env *config.Env, store, docs storage.Storage, opts ...session.Option) *App {
	bus := eventbus.New()
	registry := session.NewRegistry(store, config.SessionEnvFromEnv(env), opts...)

	notifications := notification.NewService(bus)
	advisorService := advisor.NewService(notifications, bus, env.AdvisorReplyDelay)
	knowledgeService := knowledge.NewService(docs, config.KnowledgeEnvFromEnv(env))
	extractor := agent.NewExtractor()
	llmEnv := config.LLMEnvFromEnv(env)
	chatService := chat.NewService(extractor, knowledgeService, llm.NewFactory(llmEnv), bus, llmEnv.Timeout)

	vapidEnv := config.VAPIDEnvFromEnv(env)
	pushSubRepo := pushsubrepo.NewYAMLRepository(store)
	pushSender := pushnotification.NewSender(vapidEnv, pushSubRepo)

	srv := NewServer(
		config.BaseEnvFromEnv(env),
		NewStorageChecker(store),
		task.NewServer(registry.Tasks, bus),
		calendar.NewServer(registry.Events, bus),
		notification.NewServer(registry.Notifications, notifications),
		advisor.NewServer(advisorService, registry.Advisor),
		agent.NewServer(extractor, registry.Tasks, registry.Events, bus),
		chat.NewServer(chatService, registry.Chat),
		knowledge.NewServer(knowledgeService),
		dashboard.NewServer(registry.Dashboard),
		feed.NewServer(bus),
		pushnotification.NewServer(vapidEnv, pushSubRepo, pushSender),
	)

	return &App{
		Server:     srv,
		Bus:        bus,
		Registry:   registry,
		Advisor:    advisorService,
		Knowledge:  knowledgeService,
		Dispatcher: pushnotification.NewDispatcher(bus, pushSender),
		watchDir:   env.WatchDir,
	}
}

// Run serves HTTP and runs the background workers until ctx is done or
// the server fails. Pending advisor replies are dropped on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Advisor.Close()

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(panicerr.SafeContext(a.Registry.Run))
	p.Go(panicerr.SafeContext(func(ctx context.Context) error {
		a.Dispatcher.Start(ctx)
		return nil
	}))
	if a.watchDir != "" {
		w := knowledge.NewWatcher(a.watchDir, func(ctx context.Context, _ string) {
			a.Knowledge.InvalidateFarmDoc(ctx)
		})
		p.Go(func(ctx context.Context) error {
			// The API keeps working with a stale cache.
			if err := w.Run(ctx); err != nil {
				slog.WarnContext(ctx, "knowledge watcher stopped", "error", err)
			}
			return nil
		})
	}
	p.Go(a.Server.ListenAndServe)
	return p.Wait()
}
