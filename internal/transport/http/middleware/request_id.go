package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hrconsole/internal/platform/requestctx"
)

const maxRequestIDLen = 128

// RequestID reuses the caller's X-Request-ID when it is safe to forward, or
// mints one. The id travels on the context so the API client sends it on to
// the backend, tying console and backend log lines together.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestctx.Header)
		if !forwardable(reqID) {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestctx.Header, reqID)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), reqID)))
	})
}

// forwardable rejects ids that are empty, oversized or carry characters that
// do not belong in a header or a log field.
func forwardable(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
