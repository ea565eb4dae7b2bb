package pushnotification_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/pushnotification"
	"github.com/kazz187/fieldguild/backend/internal/pushsubscription"
	"github.com/kazz187/fieldguild/backend/internal/pushsubscription/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/internal/session"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

type recordingSend struct {
	mu       sync.Mutex
	status   int
	payloads []pushnotification.NotificationPayload
	sent     chan struct{}
}

func newRecordingSend(status int) *recordingSend {
	return &recordingSend{status: status, sent: make(chan struct{}, 16)}
}

func (r *recordingSend) send(message []byte, _ *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	var p pushnotification.NotificationPayload
	if err := json.Unmarshal(message, &p); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.payloads = append(r.payloads, p)
	r.mu.Unlock()
	r.sent <- struct{}{}
	return &http.Response{StatusCode: r.status, Body: io.NopCloser(strings.NewReader(""))}, nil
}

var configured = &config.VAPIDEnv{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv", VAPIDContact: "mailto:farm@example.com"}

func subscribe(t *testing.T, repo pushsubscription.Repository, sessionID, endpoint string) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), &pushsubscription.Subscription{
		ID: endpoint, SessionID: sessionID, Endpoint: endpoint, P256dhKey: "k", AuthKey: "a", CreatedAt: time.Now(),
	}))
}

func TestSenderSkipsWithoutKeys(t *testing.T) {
	repo := repositoryimpl.NewYAMLRepository(storage.NewMemoryStorage())
	subscribe(t, repo, "north", "https://push.example/a")
	rec := newRecordingSend(http.StatusCreated)
	sender := pushnotification.NewSender(&config.VAPIDEnv{}, repo, pushnotification.WithSendFunc(rec.send))

	assert.False(t, sender.Configured())
	assert.Equal(t, 0, sender.SendToSession(context.Background(), "north", &pushnotification.NotificationPayload{Body: "x"}))
	assert.Empty(t, rec.payloads)
}

func TestSenderRemovesExpiredSubscription(t *testing.T) {
	ctx := context.Background()
	repo := repositoryimpl.NewYAMLRepository(storage.NewMemoryStorage())
	subscribe(t, repo, "north", "https://push.example/a")
	rec := newRecordingSend(http.StatusGone)
	sender := pushnotification.NewSender(configured, repo, pushnotification.WithSendFunc(rec.send))

	assert.Equal(t, 0, sender.SendToSession(ctx, "north", &pushnotification.NotificationPayload{Body: "x"}))
	require.Len(t, rec.payloads, 1)
	assert.Equal(t, "FieldGuild", rec.payloads[0].Title)

	subs, err := repo.List(ctx, "north")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDispatcherPushesNewNotifications(t *testing.T) {
	repo := repositoryimpl.NewYAMLRepository(storage.NewMemoryStorage())
	subscribe(t, repo, "north", "https://push.example/a")
	subscribe(t, repo, "south", "https://push.example/b")
	rec := newRecordingSend(http.StatusCreated)
	bus := eventbus.New()
	d := pushnotification.NewDispatcher(bus, pushnotification.NewSender(configured, repo, pushnotification.WithSendFunc(rec.send)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Start subscribes asynchronously; keep publishing until it listens.
	require.Eventually(t, func() bool {
		bus.PublishNew(eventbus.TypeNotificationUpdated, "north", "n-0", "ignored", nil)
		bus.PublishNew(eventbus.TypeNotificationCreated, "north", "n-1", "Weather Alert",
			map[string]string{"message": "Frost expected tonight"})
		select {
		case <-rec.sent:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	p := rec.payloads[0]
	assert.Equal(t, "Weather Alert", p.Title)
	assert.Equal(t, "Frost expected tonight", p.Body)
	assert.Equal(t, "n-1", p.Tag)
	assert.Equal(t, "/notifications", p.URL)
}

func newRouter(env *config.VAPIDEnv, repo pushsubscription.Repository, sender *pushnotification.Sender) chi.Router {
	r := chi.NewRouter()
	r.Use(cerr.NewConvertErrorChiMiddleware())
	r.Use(session.Middleware)
	pushnotification.NewServer(env, repo, sender).Routes(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(sessionid.Header, "north")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestServerWithoutKeys(t *testing.T) {
	repo := repositoryimpl.NewYAMLRepository(storage.NewMemoryStorage())
	env := &config.VAPIDEnv{}
	r := newRouter(env, repo, pushnotification.NewSender(env, repo))

	assert.Equal(t, http.StatusPreconditionFailed, do(r, http.MethodGet, "/push/vapid-public-key", "").Code)
	assert.Equal(t, http.StatusPreconditionFailed, do(r, http.MethodPost, "/push/test", "").Code)
}

func TestServerSubscriptions(t *testing.T) {
	ctx := context.Background()
	repo := repositoryimpl.NewYAMLRepository(storage.NewMemoryStorage())
	rec := newRecordingSend(http.StatusCreated)
	r := newRouter(configured, repo, pushnotification.NewSender(configured, repo, pushnotification.WithSendFunc(rec.send)))

	res := do(r, http.MethodGet, "/push/vapid-public-key", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"publicKey":"pub"}`, res.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/push/subscriptions", `{"endpoint":"https://push.example/a"}`).Code)

	body := `{"endpoint":"https://push.example/a","p256dhKey":"k","authKey":"a"}`
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/push/subscriptions", body).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/push/subscriptions", body).Code)
	subs, err := repo.List(ctx, "north")
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	res = do(r, http.MethodPost, "/push/test", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"sent":1}`, res.Body.String())

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/push/subscriptions", `{"endpoint":"https://push.example/a"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/push/subscriptions", `{"endpoint":"https://push.example/a"}`).Code)
}
