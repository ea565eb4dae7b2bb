package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Server struct {
	repos   RepositoryProvider
	service *Service
}

func NewServer(repos RepositoryProvider, service *Service) *Server {
	return &Server{
		repos:   repos,
		service: service,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/notifications", s.ListNotifications)
	r.Post("/notifications", s.AddNotification)
	r.Post("/notifications/read-all", s.MarkAllRead)
	r.Post("/notifications/{id}/read", s.MarkRead)
	r.Delete("/notifications/{id}", s.ClearNotification)
}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unreadCount"`
}

type NotificationResponse struct {
	Notification *Notification `json:"notification"`
}

type AddNotificationRequest struct {
	Type           Type     `json:"type"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	ActionRequired bool     `json:"actionRequired"`
	ActionText     string   `json:"actionText"`
	ViewType       ViewType `json:"viewType"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	filter := ListFilter{
		Type:  Type(q.Get("type")),
		Query: q.Get("q"),
		View:  ViewType(q.Get("view")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid type", nil)
		return
	}
	if !filter.View.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid view", nil)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	notifications, err := repo.List(ctx, filter)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	unread, err := UnreadCount(ctx, repo, filter.View)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &ListNotificationsResponse{Notifications: notifications, UnreadCount: unread})
}

func (s *Server) AddNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req AddNotificationRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	n := New(req.Type, req.Title, req.Message, s.service.Now())
	n.ActionRequired = req.ActionRequired
	n.ActionText = req.ActionText
	n.ViewType = req.ViewType
	if err := s.service.Add(ctx, repo, n); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, &NotificationResponse{Notification: n})
}

func (s *Server) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	n, err := s.service.MarkRead(ctx, repo, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &NotificationResponse{Notification: n})
}

func (s *Server) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := ViewType(r.URL.Query().Get("view"))
	if !view.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid view", nil)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	updated, err := s.service.MarkAllRead(ctx, repo, view)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &MarkAllReadResponse{Updated: updated})
}

func (s *Server) ClearNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := s.service.Clear(ctx, repo, chi.URLParam(r, "id")); err != nil {
		cerr.SetJSONError(ctx, err)
	}
}
