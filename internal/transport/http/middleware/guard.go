package middleware

import (
	"net/http"

	"hrconsole/internal/domain/guard"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/transport/http/api"
)

// RetryAfterSeconds is what a Loading decision tells clients to wait.
const RetryAfterSeconds = "1"

type SessionView interface {
	Snapshot() session.Snapshot
}

// Guard runs the route guard for every request. Paths outside the route table
// are sent to the default route.
func Guard(sess SessionView) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, ok := guard.Lookup(r.URL.Path)
			if !ok {
				redirect(w, r, guard.DefaultPath, "not_found")
				return
			}
			if route.Public {
				next.ServeHTTP(w, r)
				return
			}

			switch d := guard.Decide(sess.Snapshot(), route.Roles...); d {
			case guard.Render:
				next.ServeHTTP(w, r)
			case guard.Loading:
				w.Header().Set("Retry-After", RetryAfterSeconds)
				api.Fail(w, http.StatusServiceUnavailable, "loading", "session is still being restored", GetRequestID(r.Context()))
			default:
				redirect(w, r, d.Target(), d.String())
			}
		})
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target, code string) {
	w.Header().Set("Location", target)
	api.WriteJSON(w, http.StatusFound, api.Envelope{
		Success:   false,
		Error:     &api.Error{Code: code, Message: "redirect to " + target},
		RequestID: GetRequestID(r.Context()),
	})
}
