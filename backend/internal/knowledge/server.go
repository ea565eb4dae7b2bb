package knowledge

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/knowledge/farm-doc", s.FarmDoc)
	r.Get("/knowledge/external", s.External)
}

type FarmDocResponse struct {
	DocumentContent string `json:"documentContent"`
	Message         string `json:"message"`
}

type ExternalResponse struct {
	KnowledgeBaseContent string `json:"knowledgeBaseContent"`
	Message              string `json:"message"`
}

func (s *Server) FarmDoc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := s.service.FarmDoc(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &FarmDocResponse{
		DocumentContent: doc,
		Message:         "Farm document retrieved successfully",
	})
}

func (s *Server) External(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kb, err := s.service.KnowledgeBase(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, &ExternalResponse{
		KnowledgeBaseContent: kb,
		Message:              "External knowledge base retrieved successfully",
	})
}
