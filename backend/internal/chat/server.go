package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

// APIKeyHeader carries a caller supplied model API key.
const APIKeyHeader = "X-LLM-API-Key"

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
	r.Post("/chat", s.Send)
	r.Get("/chat/history", s.History)
	r.Delete("/chat/history", s.Reset)
	r.Get("/chat/suggestions", s.Suggestions)
}

type SendRequest struct {
	Message string `json:"message"`
}

type HistoryResponse struct {
	Messages []*Message `json:"messages"`
}

type SuggestionsResponse struct {
	Questions []string `json:"questions"`
}

func (s *Server) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SendRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	ws, err := s.workspaces(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	reply, err := s.service.Send(ctx, ws, req.Message, r.Header.Get(APIKeyHeader))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, reply)
}

func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws, err := s.workspaces(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	messages, err := ws.Messages.List(ctx, 0)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &HistoryResponse{Messages: messages})
}

func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws, err := s.workspaces(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := ws.Messages.Clear(ctx); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, nil)
}

func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), &SuggestionsResponse{Questions: SuggestedQuestions})
}
