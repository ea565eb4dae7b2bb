package pushnotification

import (
	"context"
	"log/slog"

	"github.com/kazz187/fieldguild/backend/internal/eventbus"
)

const notificationsURL = "/notifications"

// Dispatcher forwards new dashboard notifications to the browsers of the
// session they were raised in.
type Dispatcher struct {
	eventBus *eventbus.Bus
	sender   *Sender
}

func NewDispatcher(eventBus *eventbus.Bus, sender *Sender) *Dispatcher {
	return &Dispatcher{
		eventBus: eventBus,
		sender:   sender,
	}
}

// Start blocks until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	subID, ch := d.eventBus.Subscribe(256)
	defer d.eventBus.Unsubscribe(subID)

	slog.InfoContext(ctx, "push notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "push notification dispatcher stopped")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if event.Type == eventbus.TypeNotificationCreated {
				d.handleNotificationCreated(ctx, event)
			}
		}
	}
}

func (d *Dispatcher) handleNotificationCreated(ctx context.Context, event *eventbus.Event) {
	d.sender.SendToSession(ctx, event.SessionID, &NotificationPayload{
		Title: event.Payload,
		Body:  event.Metadata["message"],
		URL:   notificationsURL,
		Tag:   event.ResourceID,
	})
}
