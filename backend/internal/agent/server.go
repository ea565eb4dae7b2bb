package agent

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

// Server exposes the extractor and executor without the LLM round trip.
type Server struct {
	extractor *Extractor
	tasks     task.RepositoryProvider
	events    calendar.RepositoryProvider
	eventBus  *eventbus.Bus
}

func NewServer(extractor *Extractor, tasks task.RepositoryProvider, events calendar.RepositoryProvider, eventBus *eventbus.Bus) *Server {
	return &Server{
		extractor: extractor,
		tasks:     tasks,
		events:    events,
		eventBus:  eventBus,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/agent/parse", s.Parse)
	r.Post("/agent/execute", s.Execute)
}

type ParseRequest struct {
	Message string `json:"message"`
}

type ParseResponse struct {
	Actions []Action `json:"actions"`
}

type ExecuteRequest struct {
	Message string   `json:"message"`
	Actions []Action `json:"actions"`
}

type ExecuteResponse struct {
	Actions []Action `json:"actions"`
	Results []string `json:"results"`
}

func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParseRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "message is required", nil)
		return
	}
	cerr.SetJSONResponse(ctx, &ParseResponse{Actions: s.extractor.Extract(req.Message)})
}

// Execute runs the given actions, or the ones extracted from message when
// none are given.
func (s *Server) Execute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ExecuteRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	actions := req.Actions
	if len(actions) == 0 {
		if strings.TrimSpace(req.Message) == "" {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "message or actions is required", nil)
			return
		}
		actions = s.extractor.Extract(req.Message)
	} else {
		var details []string
		for _, a := range actions {
			if err := a.Validate(); err != nil {
				details = append(details, err.Error())
			}
		}
		if len(details) > 0 {
			cerr.SetJSONError(ctx, cerr.NewErrorWithDetails(cerr.InvalidArgument, "invalid actions", nil, details))
			return
		}
	}

	taskRepo, err := s.tasks(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	eventRepo, err := s.events(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	exec := NewExecutor(taskRepo, eventRepo,
		WithExecutorClock(s.extractor.Dates().Now),
		WithEventBus(s.eventBus),
	)
	cerr.SetJSONResponse(ctx, &ExecuteResponse{
		Actions: actions,
		Results: exec.Execute(ctx, actions),
	})
}
