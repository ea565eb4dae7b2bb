package calendar

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Server struct {
	repos    RepositoryProvider
	eventBus *eventbus.Bus
	now      func() time.Time
}

func NewServer(repos RepositoryProvider, eventBus *eventbus.Bus) *Server {
	return &Server{
		repos:    repos,
		eventBus: eventBus,
		now:      time.Now,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/events", s.ListEvents)
	r.Post("/events", s.CreateEvent)
	r.Get("/events/{id}", s.GetEvent)
	r.Patch("/events/{id}", s.PatchEvent)
	r.Delete("/events/{id}", s.DeleteEvent)
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type EventResponse struct {
	Event *Event `json:"event"`
}

type CreateEventRequest struct {
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
}

func parseBound(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", v, time.Local)
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	from, err := parseBound(q.Get("from"))
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid from", err)
		return
	}
	to, err := parseBound(q.Get("to"))
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid to", err)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	events, err := repo.List(ctx, ListFilter{From: from, To: to, Type: Type(q.Get("type"))})
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &ListEventsResponse{Events: events})
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateEventRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	e := New(req.Title, req.Description, req.Type, req.Date, s.now())
	e.Status = req.Status
	if err := Validate(e); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := repo.Create(ctx, e); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TypeEventCreated, sessionid.FromContext(ctx), e.ID, e.Title, nil)
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, &EventResponse{Event: e})
}

func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	e, err := repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &EventResponse{Event: e})
}

func (s *Server) PatchEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var patch Patch
	if err := cerr.DecodeJSONBody(r, &patch); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	e, err := repo.Patch(ctx, chi.URLParam(r, "id"), &patch)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TypeEventUpdated, sessionid.FromContext(ctx), e.ID, e.Title, nil)
	cerr.SetJSONResponse(ctx, &EventResponse{Event: e})
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := repo.Delete(ctx, id); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TypeEventDeleted, sessionid.FromContext(ctx), id, "", nil)
}
