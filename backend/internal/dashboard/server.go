package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Server struct {
	workspaces WorkspaceProvider
	now        func() time.Time
}

func NewServer(workspaces WorkspaceProvider) *Server {
	return &Server{
		workspaces: workspaces,
		now:        time.Now,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/dashboard/weather", s.GetWeather)
	r.Get("/dashboard/fields", s.ListFields)
	r.Get("/dashboard/summary", s.GetSummary)
}

type FieldsResponse struct {
	Fields []*Field `json:"fields"`
}

func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), SampleWeather(s.now()))
}

func (s *Server) ListFields(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), &FieldsResponse{Fields: SampleFields()})
}

func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := task.ViewType(r.URL.Query().Get("view"))
	if !view.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid view", nil)
		return
	}
	ws, err := s.workspaces(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	summary, err := Summarize(ctx, ws, view, s.now())
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, summary)
}
