package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

// New builds an unread notification dated now.
func New(typ Type, title, message string, now time.Time) *Notification {
	return &Notification{
		ID:      ulid.Make().String(),
		Type:    typ,
		Title:   strings.TrimSpace(title),
		Message: strings.TrimSpace(message),
		Date:    now,
	}
}

func Validate(n *Notification) error {
	if !n.Type.Valid() {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid notification type %q", n.Type), nil)
	}
	if n.Title == "" {
		return cerr.NewError(cerr.InvalidArgument, "title is required", nil)
	}
	if n.Message == "" {
		return cerr.NewError(cerr.InvalidArgument, "message is required", nil)
	}
	if !n.ViewType.Valid() {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid view type %q", n.ViewType), nil)
	}
	return nil
}

// Service applies notification changes to a session repository and
// announces them on the event bus.
type Service struct {
	eventBus *eventbus.Bus
	now      func() time.Time
}

func NewService(eventBus *eventbus.Bus) *Service {
	return &Service{eventBus: eventBus, now: time.Now}
}

func (s *Service) Now() time.Time { return s.now() }

func (s *Service) publish(ctx context.Context, typ eventbus.EventType, n *Notification) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.PublishNew(typ, sessionid.FromContext(ctx), n.ID, n.Title, map[string]string{
		"notification_type": string(n.Type),
		"message":           n.Message,
	})
}

func (s *Service) Add(ctx context.Context, repo Repository, n *Notification) error {
	if n.ID == "" {
		n.ID = ulid.Make().String()
	}
	if n.Date.IsZero() {
		n.Date = s.now()
	}
	n.Read = false
	if err := Validate(n); err != nil {
		return err
	}
	if err := repo.Create(ctx, n); err != nil {
		return err
	}
	s.publish(ctx, eventbus.TypeNotificationCreated, n)
	return nil
}

func (s *Service) MarkRead(ctx context.Context, repo Repository, id string) (*Notification, error) {
	n, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := repo.Update(ctx, n); err != nil {
		return nil, err
	}
	s.publish(ctx, eventbus.TypeNotificationUpdated, n)
	return n, nil
}

// MarkAllRead marks every unread notification on view as read and returns
// how many changed.
func (s *Service) MarkAllRead(ctx context.Context, repo Repository, view ViewType) (int, error) {
	all, err := repo.List(ctx, ListFilter{View: view})
	if err != nil {
		return 0, err
	}
	var n int
	for _, item := range all {
		if item.Read {
			continue
		}
		item.Read = true
		if err := repo.Update(ctx, item); err != nil {
			return n, err
		}
		s.publish(ctx, eventbus.TypeNotificationUpdated, item)
		n++
	}
	return n, nil
}

func (s *Service) Clear(ctx context.Context, repo Repository, id string) error {
	n, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, eventbus.TypeNotificationUpdated, n)
	return nil
}

// UnreadCount counts unread notifications on view, ignoring any type or
// search filter.
func UnreadCount(ctx context.Context, repo Repository, view ViewType) (int, error) {
	all, err := repo.List(ctx, ListFilter{View: view})
	if err != nil {
		return 0, err
	}
	var n int
	for _, item := range all {
		if !item.Read {
			n++
		}
	}
	return n, nil
}
