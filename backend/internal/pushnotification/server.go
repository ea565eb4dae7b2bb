package pushnotification

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/internal/pushsubscription"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Server struct {
	vapidEnv *config.VAPIDEnv
	repo     pushsubscription.Repository
	sender   *Sender
	now      func() time.Time
}

func NewServer(vapidEnv *config.VAPIDEnv, repo pushsubscription.Repository, sender *Sender) *Server {
	return &Server{
		vapidEnv: vapidEnv,
		repo:     repo,
		sender:   sender,
		now:      time.Now,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/push/vapid-public-key", s.GetVapidPublicKey)
	r.Post("/push/subscriptions", s.RegisterSubscription)
	r.Delete("/push/subscriptions", s.UnregisterSubscription)
	r.Post("/push/test", s.SendTest)
}

type VapidPublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

type RegisterSubscriptionRequest struct {
	Endpoint  string `json:"endpoint"`
	P256dhKey string `json:"p256dhKey"`
	AuthKey   string `json:"authKey"`
}

type UnregisterSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
}

type SendTestResponse struct {
	Sent int `json:"sent"`
}

func (s *Server) GetVapidPublicKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.vapidEnv.VAPIDPublicKey == "" {
		cerr.SetNewJSONError(ctx, cerr.FailedPrecondition, "VAPID keys not configured", nil)
		return
	}
	cerr.SetJSONResponse(ctx, &VapidPublicKeyResponse{PublicKey: s.vapidEnv.VAPIDPublicKey})
}

func (s *Server) RegisterSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RegisterSubscriptionRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	switch {
	case req.Endpoint == "":
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "endpoint is required", nil)
		return
	case req.P256dhKey == "":
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "p256dhKey is required", nil)
		return
	case req.AuthKey == "":
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "authKey is required", nil)
		return
	}

	now := s.now()
	sub := &pushsubscription.Subscription{
		ID:        ulid.Make().String(),
		SessionID: sessionid.FromContext(ctx),
		Endpoint:  req.Endpoint,
		P256dhKey: req.P256dhKey,
		AuthKey:   req.AuthKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, sub)
}

func (s *Server) UnregisterSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UnregisterSubscriptionRequest
	if err := cerr.DecodeJSONBody(r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if req.Endpoint == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "endpoint is required", nil)
		return
	}
	if err := s.repo.DeleteByEndpoint(ctx, req.Endpoint); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, nil)
}

func (s *Server) SendTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.sender.Configured() {
		cerr.SetNewJSONError(ctx, cerr.FailedPrecondition, "VAPID keys not configured", nil)
		return
	}
	sent := s.sender.SendToSession(ctx, sessionid.FromContext(ctx), &NotificationPayload{
		Title: defaultTitle,
		Body:  "Push notifications are working",
		URL:   notificationsURL,
		Tag:   "test",
	})
	cerr.SetJSONResponse(ctx, &SendTestResponse{Sent: sent})
}
