package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

const (
	subscriberBuffer  = 64
	DefaultKeepAlive  = 15 * time.Second
	contentTypeStream = "text/event-stream"
)

// Server streams event bus traffic of the caller's session as server-sent
// events.
type Server struct {
	eventBus  *eventbus.Bus
	keepAlive time.Duration
}

func NewServer(eventBus *eventbus.Bus) *Server {
	return &Server{eventBus: eventBus, keepAlive: DefaultKeepAlive}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/feed", s.Subscribe)
}

// Subscribe serves GET /feed. The optional types query parameter is a comma
// separated list of event types to keep.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unimplemented, "streaming is not supported", nil)
		return
	}

	typeFilter := make(map[eventbus.EventType]struct{})
	for _, t := range strings.Split(r.URL.Query().Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			typeFilter[eventbus.EventType(t)] = struct{}{}
		}
	}
	session := sessionid.FromContext(ctx)

	subID, ch := s.eventBus.Subscribe(subscriberBuffer)
	defer s.eventBus.Unsubscribe(subID)

	cerr.MarkWritten(ctx)
	w.Header().Set("Content-Type", contentTypeStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			if event.SessionID != session {
				continue
			}
			if len(typeFilter) > 0 {
				if _, match := typeFilter[event.Type]; !match {
					continue
				}
			}
			data, err := json.Marshal(event)
			if err != nil {
				slog.WarnContext(ctx, "failed to encode feed event", "id", event.ID, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
