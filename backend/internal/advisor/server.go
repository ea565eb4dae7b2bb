package advisor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Server struct {
	service    *Service
	workspaces WorkspaceProvider
}

func NewServer(service *Service, workspaces WorkspaceProvider) *Server {
	return &Server{
		service:    service,
		workspaces: workspaces,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/advisor/messages", s.ContactAdvisor)
	r.Post("/advisor/requests", s.RequestSupport)
}

func (s *Server) ContactAdvisor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ContactRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	ws, err := s.workspaces(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	receipt, err := s.service.Contact(ctx, ws, &req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusAccepted, receipt)
}

func (s *Server) RequestSupport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SupportRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	ws, err := s.workspaces(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	receipt, err := s.service.Support(ctx, ws, &req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusAccepted, receipt)
}
