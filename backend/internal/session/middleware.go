package session

import (
	"fmt"
	"net/http"

	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/clog"
)

// Middleware binds the X-Session-ID header (or the session query parameter,
// or the default session) to the request context. It must run inside the
// cerr middleware.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := r.Header.Get(sessionid.Header)
		if id == "" {
			id = r.URL.Query().Get("session")
		}
		if id == "" {
			id = sessionid.Default
		}
		if !sessionid.Valid(id) {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, fmt.Sprintf("invalid session id %q", id), nil)
			return
		}
		ctx = sessionid.WithContext(ctx, id)
		clog.AddAttribute(ctx, "session_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
