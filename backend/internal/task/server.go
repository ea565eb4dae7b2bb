package task

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
	r.Get("/tasks", s.ListTasks)
	r.Post("/tasks", s.CreateTask)
	r.Get("/tasks/{id}", s.GetTask)
	r.Put("/tasks/{id}", s.UpdateTask)
	r.Delete("/tasks/{id}", s.DeleteTask)
	r.Post("/tasks/{id}/complete", s.CompleteTask)
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type TaskResponse struct {
	Task *Task `json:"task"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Date        string   `json:"date"`
	ViewType    ViewType `json:"viewType"`
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	q := r.URL.Query()
	filter := ListFilter{Status: Status(q.Get("status")), ViewType: ViewType(q.Get("view"))}
	if filter.Status != "" && !filter.Status.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid status filter", nil)
		return
	}
	tasks, err := repo.List(ctx, filter)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &ListTasksResponse{Tasks: tasks})
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateTaskRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	now := s.now()
	t := New(req.Title, req.Description, req.Status, now, now)
	if req.Date != "" {
		t.Date = req.Date
	}
	t.ViewType = req.ViewType
	if err := Validate(t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := repo.Create(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TypeTaskCreated, sessionid.FromContext(ctx), t.ID, t.Title, nil)
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, &TaskResponse{Task: t})
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &TaskResponse{Task: t})
}

// UpdateTask replaces the editable fields of a task.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateTaskRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t.Title = req.Title
	t.Description = req.Description
	t.Status = req.Status
	if req.Date != "" {
		t.Date = req.Date
	}
	t.ViewType = req.ViewType
	t.Normalize()
	t.UpdatedAt = s.now()
	if err := Validate(t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TypeTaskUpdated, sessionid.FromContext(ctx), t.ID, t.Title, nil)
	cerr.SetJSONResponse(ctx, &TaskResponse{Task: t})
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	repo, err := s.repos(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := Complete(ctx, repo, chi.URLParam(r, "id"), s.now())
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	s.eventBus.PublishNew(eventbus.TypeTaskUpdated, sessionid.FromContext(ctx), t.ID, t.Title, map[string]string{"status": string(t.Status)})
	cerr.SetJSONResponse(ctx, &TaskResponse{Task: t})
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
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
	s.eventBus.PublishNew(eventbus.TypeTaskDeleted, sessionid.FromContext(ctx), id, "", nil)
}
