package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/pkg/panicerr"
)

// DefaultVisitLead is how far ahead a visit lands when no date was asked for.
const DefaultVisitLead = 7 * 24 * time.Hour

type RequestType string

const (
	RequestAdvice RequestType = "advice"
	RequestVisit  RequestType = "visit"
)

type ContactRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type SupportRequest struct {
	Issue         string      `json:"issue"`
	Description   string      `json:"description"`
	RequestType   RequestType `json:"requestType"`
	PreferredDate string      `json:"preferredDate,omitempty"`
}

// Workspace is the per-session state the advisor flows write to.
type Workspace struct {
	Notifications notification.Repository
	Events        calendar.Repository
}

type WorkspaceProvider func(ctx context.Context) (*Workspace, error)

type Receipt struct {
	Confirmation *notification.Notification `json:"confirmation"`
	Visit        *calendar.Event            `json:"visit,omitempty"`
	ReplyAt      time.Time                  `json:"replyAt"`
}

// Service simulates a farm advisor: every request is confirmed at once and
// answered after the reply delay.
type Service struct {
	notifications *notification.Service
	eventBus      *eventbus.Bus
	delay         time.Duration
	now           func() time.Time

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	wg      sync.WaitGroup
	closed  bool
}

func NewService(notifications *notification.Service, eventBus *eventbus.Bus, delay time.Duration) *Service {
	return &Service{
		notifications: notifications,
		eventBus:      eventBus,
		delay:         delay,
		now:           time.Now,
		pending:       make(map[*time.Timer]struct{}),
	}
}

type field struct {
	name  string
	value string
	min   int
}

func validate(fields ...field) error {
	var details []string
	for _, f := range fields {
		if utf8.RuneCountInString(strings.TrimSpace(f.value)) < f.min {
			details = append(details, fmt.Sprintf("%s must be at least %d characters", f.name, f.min))
		}
	}
	if len(details) > 0 {
		return cerr.NewErrorWithDetails(cerr.InvalidArgument, "invalid request", nil, details)
	}
	return nil
}

// Contact sends a message to the advisor.
func (s *Service) Contact(ctx context.Context, ws *Workspace, req *ContactRequest) (*Receipt, error) {
	if err := validate(field{"subject", req.Subject, 5}, field{"message", req.Message, 10}); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(req.Subject)

	confirm := notification.New(notification.TypeAdvisor, "Message Sent to Advisor",
		fmt.Sprintf("Your message %q has been sent to your advisor. They will respond shortly.", subject), s.now())
	if err := s.notifications.Add(ctx, ws.Notifications, confirm); err != nil {
		return nil, err
	}

	reply := notification.New(notification.TypeAdvisor, "Response from Advisor",
		fmt.Sprintf("Thank you for your message about %q. I've reviewed the details and will visit your farm next week to assess the situation in person.", subject), time.Time{})
	reply.ActionRequired = true
	reply.ActionText = "Schedule Visit"
	s.replyLater(ctx, ws, reply)

	return &Receipt{Confirmation: confirm, ReplyAt: s.now().Add(s.delay)}, nil
}

// Support files an advice or visit request. A visit also lands on the
// calendar.
func (s *Service) Support(ctx context.Context, ws *Workspace, req *SupportRequest) (*Receipt, error) {
	if err := validate(field{"issue", req.Issue, 5}, field{"description", req.Description, 10}); err != nil {
		return nil, err
	}
	if req.RequestType == "" {
		req.RequestType = RequestAdvice
	}
	if req.RequestType != RequestAdvice && req.RequestType != RequestVisit {
		return nil, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid request type %q", req.RequestType), nil)
	}
	issue := strings.TrimSpace(req.Issue)
	now := s.now()

	var visitDate time.Time
	if req.RequestType == RequestVisit {
		visitDate = now.Add(DefaultVisitLead)
		if req.PreferredDate != "" {
			d, err := time.ParseInLocation("2006-01-02", req.PreferredDate, now.Location())
			if err != nil {
				return nil, cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid preferred date %q, want YYYY-MM-DD", req.PreferredDate), err)
			}
			visitDate = d
		}
		visitDate = time.Date(visitDate.Year(), visitDate.Month(), visitDate.Day(), 0, 0, 0, 0, now.Location())
	}

	confirm := notification.New(notification.TypeAdvisor, "Support Request Sent",
		fmt.Sprintf("Your %s request about %q has been sent to your advisor.", req.RequestType, issue), now)
	if err := s.notifications.Add(ctx, ws.Notifications, confirm); err != nil {
		return nil, err
	}

	receipt := &Receipt{Confirmation: confirm, ReplyAt: now.Add(s.delay)}
	if req.RequestType == RequestVisit {
		visit := calendar.New("Advisor Visit: "+issue, strings.TrimSpace(req.Description), calendar.TypeVisit, visitDate, now)
		if err := ws.Events.Create(ctx, visit); err != nil {
			return nil, err
		}
		if s.eventBus != nil {
			s.eventBus.PublishNew(eventbus.TypeEventCreated, sessionid.FromContext(ctx), visit.ID, visit.Title, map[string]string{"source": "advisor"})
		}
		receipt.Visit = visit
	}

	var reply *notification.Notification
	if req.RequestType == RequestAdvice {
		reply = notification.New(notification.TypeAdvisor, "Advice Response",
			fmt.Sprintf("Thank you for your request about %q. I'll review the information and provide advice within 24 hours.", issue), time.Time{})
		reply.ActionText = "View Advice"
	} else {
		reply = notification.New(notification.TypeAdvisor, "Visit Confirmation",
			fmt.Sprintf("Thank you for requesting a farm visit regarding %q. I'll check my availability and confirm a visit date soon.", issue), time.Time{})
		reply.ActionText = "Confirm Visit"
	}
	reply.ActionRequired = true
	s.replyLater(ctx, ws, reply)

	return receipt, nil
}

// replyLater delivers n after the reply delay. The request context only
// lends its values; cancellation comes from Close.
func (s *Service) replyLater(ctx context.Context, ws *Workspace, n *notification.Notification) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.pending, t)
		s.mu.Unlock()

		err := panicerr.Safe(func() error {
			n.Date = s.now()
			return s.notifications.Add(ctx, ws.Notifications, n)
		})()
		if err != nil {
			slog.ErrorContext(ctx, "failed to deliver advisor reply", "title", n.Title, "error", err)
		}
	})
	s.pending[t] = struct{}{}
}

// Wait blocks until every scheduled reply has been delivered.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels replies that have not fired yet.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for t := range s.pending {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.pending, t)
	}
}
