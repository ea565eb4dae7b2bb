package advisor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/advisor"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	calrepo "github.com/kazz187/fieldguild/backend/internal/calendar/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	notifrepo "github.com/kazz187/fieldguild/backend/internal/notification/repositoryimpl"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

func newWorkspace() *advisor.Workspace {
	return &advisor.Workspace{
		Notifications: notifrepo.NewYAMLRepository(storage.NewMemoryStorage()),
		Events:        calrepo.NewYAMLRepository(storage.NewMemoryStorage()),
	}
}

func titles(t *testing.T, ws *advisor.Workspace) []string {
	t.Helper()
	all, err := ws.Notifications.List(context.Background(), notification.ListFilter{})
	require.NoError(t, err)
	out := make([]string, len(all))
	for i, n := range all {
		out[i] = n.Title
	}
	return out
}

func TestContact(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	svc := advisor.NewService(notification.NewService(nil), nil, 10*time.Millisecond)
	defer svc.Close()

	receipt, err := svc.Contact(ctx, ws, &advisor.ContactRequest{Subject: "Yellow leaves", Message: "The maize in the north field is yellowing."})
	require.NoError(t, err)
	assert.Equal(t, "Message Sent to Advisor", receipt.Confirmation.Title)
	assert.Contains(t, receipt.Confirmation.Message, `"Yellow leaves"`)

	svc.Wait()
	assert.ElementsMatch(t, []string{"Message Sent to Advisor", "Response from Advisor"}, titles(t, ws))
}

func TestSupportVisitAddsCalendarEvent(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	bus := eventbus.New()
	_, events := bus.Subscribe(16)
	svc := advisor.NewService(notification.NewService(bus), bus, time.Millisecond)
	defer svc.Close()

	receipt, err := svc.Support(ctx, ws, &advisor.SupportRequest{
		Issue:         "Soil compaction",
		Description:   "Tractor ruts in the east field after rain",
		RequestType:   advisor.RequestVisit,
		PreferredDate: "2025-04-22",
	})
	require.NoError(t, err)
	require.NotNil(t, receipt.Visit)
	assert.Equal(t, calendar.TypeVisit, receipt.Visit.Type)
	assert.Equal(t, "2025-04-22", receipt.Visit.Date.Format("2006-01-02"))

	stored, err := ws.Events.List(ctx, calendar.ListFilter{Type: calendar.TypeVisit})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Advisor Visit: Soil compaction", stored[0].Title)

	svc.Wait()
	assert.ElementsMatch(t, []string{"Support Request Sent", "Visit Confirmation"}, titles(t, ws))

	var types []eventbus.EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Contains(t, types, eventbus.TypeEventCreated)
	assert.Contains(t, types, eventbus.TypeNotificationCreated)
}

func TestSupportAdviceHasNoEvent(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	svc := advisor.NewService(notification.NewService(nil), nil, time.Millisecond)
	defer svc.Close()

	receipt, err := svc.Support(ctx, ws, &advisor.SupportRequest{Issue: "Aphids", Description: "Clusters on the bean leaves"})
	require.NoError(t, err)
	assert.Nil(t, receipt.Visit)
	svc.Wait()
	assert.Contains(t, titles(t, ws), "Advice Response")

	events, err := ws.Events.List(ctx, calendar.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	svc := advisor.NewService(notification.NewService(nil), nil, time.Hour)
	defer svc.Close()

	_, err := svc.Contact(ctx, ws, &advisor.ContactRequest{Subject: "Hi", Message: "short"})
	require.True(t, cerr.IsCode(err, cerr.InvalidArgument))
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Len(t, ce.Details, 2)

	_, err = svc.Support(ctx, ws, &advisor.SupportRequest{Issue: "Aphids", Description: "Clusters on leaves", RequestType: "phone"})
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))

	_, err = svc.Support(ctx, ws, &advisor.SupportRequest{Issue: "Aphids", Description: "Clusters on leaves", RequestType: advisor.RequestVisit, PreferredDate: "22/04"})
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))

	assert.Empty(t, titles(t, ws))
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	ws := newWorkspace()
	svc := advisor.NewService(notification.NewService(nil), nil, time.Hour)

	_, err := svc.Contact(context.Background(), ws, &advisor.ContactRequest{Subject: "Irrigation", Message: "Pump pressure is low again."})
	require.NoError(t, err)
	svc.Close()
	svc.Wait()
	assert.Equal(t, []string{"Message Sent to Advisor"}, titles(t, ws))
}

func TestServer(t *testing.T) {
	ws := newWorkspace()
	svc := advisor.NewService(notification.NewService(nil), nil, time.Hour)
	defer svc.Close()
	r := chi.NewRouter()
	r.Use(cerr.NewConvertErrorChiMiddleware())
	advisor.NewServer(svc, func(context.Context) (*advisor.Workspace, error) { return ws, nil }).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/advisor/messages", strings.NewReader(`{"subject":"Yellow leaves","message":"The maize is yellowing fast."}`)))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var receipt advisor.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "Message Sent to Advisor", receipt.Confirmation.Title)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/advisor/requests", strings.NewReader(`{"issue":"x","description":"y"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "issue must be at least 5 characters")
}
