package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/transport/http/api"
)

type staticSession session.Snapshot

func (s staticSession) Snapshot() session.Snapshot { return session.Snapshot(s) }

func signedIn(role auth.Role) staticSession {
	return staticSession{State: session.Authenticated, Identity: auth.Identity{ID: "u1", Role: role}, Token: "t"}
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestGuardDecisions(t *testing.T) {
	tests := []struct {
		name     string
		sess     staticSession
		path     string
		status   int
		location string
	}{
		{name: "unresolved waits", sess: staticSession{State: session.Unresolved}, path: "/employees", status: http.StatusServiceUnavailable},
		{name: "anonymous to login", sess: staticSession{State: session.Anonymous}, path: "/employees", status: http.StatusFound, location: "/login"},
		{name: "public while unresolved", sess: staticSession{State: session.Unresolved}, path: "/login", status: http.StatusNoContent},
		{name: "employee off staff page", sess: signedIn(auth.RoleEmployee), path: "/payroll", status: http.StatusFound, location: "/"},
		{name: "hr on staff page", sess: signedIn(auth.RoleHR), path: "/payroll", status: http.StatusNoContent},
		{name: "hr off self service page", sess: signedIn(auth.RoleHR), path: "/employee-salary", status: http.StatusFound, location: "/"},
		{name: "sub path inherits", sess: signedIn(auth.RoleAdmin), path: "/employees/e1", status: http.StatusNoContent},
		{name: "empty role on dashboard", sess: signedIn(""), path: "/", status: http.StatusNoContent},
		{name: "empty role off leaves", sess: signedIn(""), path: "/leaves", status: http.StatusFound, location: "/"},
		{name: "unknown path", sess: signedIn(auth.RoleAdmin), path: "/nowhere", status: http.StatusFound, location: "/"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := Guard(tc.sess)(http.HandlerFunc(ok))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tc.location {
				t.Fatalf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}

func TestGuardLoadingEnvelope(t *testing.T) {
	h := Guard(staticSession{State: session.Unresolved})(http.HandlerFunc(ok))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Retry-After") != RetryAfterSeconds {
		t.Fatalf("expected Retry-After, got %q", rec.Header().Get("Retry-After"))
	}
	if env := decodeEnvelope(t, rec); env.Success || env.Error == nil || env.Error.Code != "loading" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "req-123" || rec.Header().Get("X-Request-ID") != "req-123" {
		t.Fatalf("expected caller id, got ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "req-123" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected minted id, got %q", seen)
	}
}

func TestRequestIDReplacesUnsafeIDs(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))
	for _, id := range []string{"has space", strings.Repeat("x", maxRequestIDLen+1), "tab\tid"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if seen == id || seen == "" || rec.Header().Get("X-Request-ID") != seen {
			t.Fatalf("expected %q to be replaced, got %q", id, seen)
		}
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	h := RequestID(Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/settings", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if line["status"] != float64(http.StatusTeapot) || line["path"] != "/settings" || line["requestId"] == "" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestRecovererAnswers500(t *testing.T) {
	h := Recoverer(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	h := BodyLimit(16)(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(strings.Repeat("x", 64))))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected GET to pass, got %d", rec.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(true)(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Cross-Origin-Resource-Policy", "Permissions-Policy", "Strict-Transport-Security"} {
		if rec.Header().Get(h) == "" {
			t.Fatalf("missing %s", h)
		}
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("HR data must not be cached, got %q", got)
	}

	rec = httptest.NewRecorder()
	SecureHeaders(false)(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS is production only")
	}
}

func TestCredentialThrottleByEmail(t *testing.T) {
	h := CredentialThrottle(1, time.Minute, nil, zerolog.Nop())(http.HandlerFunc(ok))
	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"Ada@Example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if got := send("198.51.100.1:1000"); got != http.StatusNoContent {
		t.Fatalf("expected first attempt to pass, got %d", got)
	}
	if got := send("198.51.100.2:1000"); got != http.StatusTooManyRequests {
		t.Fatalf("expected second attempt for same email to be throttled, got %d", got)
	}
}

func TestCredentialThrottleRestoresBody(t *testing.T) {
	var body string
	h := CredentialThrottle(5, time.Minute, nil, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)
		body = buf.String()
	}))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if body != `{"email":"a@example.com"}` {
		t.Fatalf("expected body intact, got %q", body)
	}
}

func TestCredentialThrottleIgnoresForwardedForByDefault(t *testing.T) {
	h := CredentialThrottle(1, time.Minute, nil, zerolog.Nop())(http.HandlerFunc(ok))
	send := func(fwd string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fwd)
		req.RemoteAddr = "198.51.100.7:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if got := send("203.0.113.1"); got != http.StatusNoContent {
		t.Fatalf("expected first attempt to pass, got %d", got)
	}
	if got := send("203.0.113.2"); got != http.StatusTooManyRequests {
		t.Fatalf("spoofed forwarded-for must not reset the limit, got %d", got)
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		trustProxy bool
		fwd        string
		want       string
	}{
		{name: "peer address", want: "198.51.100.7"},
		{name: "forwarded ignored", fwd: "203.0.113.1", want: "198.51.100.7"},
		{name: "forwarded trusted", trustProxy: true, fwd: "203.0.113.1, 10.0.0.1", want: "203.0.113.1"},
		{name: "trusted but absent", trustProxy: true, want: "198.51.100.7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "198.51.100.7:1000"
			if tc.fwd != "" {
				req.Header.Set("X-Forwarded-For", tc.fwd)
			}
			if got := ClientIP(tc.trustProxy)(req); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRateLimitPerClient(t *testing.T) {
	h := RateLimit(2, time.Minute, nil, zerolog.Nop())(http.HandlerFunc(ok))
	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	for i := 0; i < 2; i++ {
		if rec := send("198.51.100.1:1000"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected pass, got %d", i+1, rec.Code)
		}
	}
	rec := send("198.51.100.1:1000")
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d", rec.Code)
	}
	if rec := send("198.51.100.2:1000"); rec.Code != http.StatusNoContent {
		t.Fatalf("other clients must not be limited, got %d", rec.Code)
	}
}
