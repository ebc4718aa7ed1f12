package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"hrconsole/internal/platform/requestctx"
)

func staticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

func TestBearerHeaderOnlyWhenTokenPresent(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	withToken, err := New(srv.URL, staticToken("abc"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	without, err := New(srv.URL, staticToken(""))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := withToken.Get(context.Background(), "/departments", nil, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := without.Get(context.Background(), "/departments", nil, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 || got[0] != "Bearer abc" || got[1] != "" {
		t.Fatalf("unexpected auth headers: %#v", got)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestctx.Header)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	ctx := requestctx.WithRequestID(context.Background(), "req-1")
	if err := c.Delete(ctx, "/departments/1", nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if seen != "req-1" {
		t.Fatalf("expected request id req-1, got %q", seen)
	}
}

func TestQueryAndBodyEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("search") != "ali" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"employees":[],"totalPages":3}`))
		case http.MethodPost:
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("missing content type")
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(map[string]string{"name": body["name"], "_id": "d1"})
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL+"/", nil)
	var raw json.RawMessage
	if err := c.Get(context.Background(), "/employees", url.Values{"page": {"2"}, "search": {"ali"}}, &raw); err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != `{"employees":[],"totalPages":3}` {
		t.Fatalf("unexpected raw body: %s", raw)
	}

	var created struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := c.Post(context.Background(), "/departments", map[string]string{"name": "Ops"}, &created); err != nil {
		t.Fatalf("post: %v", err)
	}
	if created.ID != "d1" || created.Name != "Ops" {
		t.Fatalf("unexpected record: %+v", created)
	}
}

func TestHTTPErrorCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Pending","approvalStatus":"PENDING"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	err := c.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.com"}, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "Pending" || apiErr.ApprovalStatus != "PENDING" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if IsNetwork(err) {
		t.Fatal("http error must not be reported as network")
	}
	if StatusOf(err) != http.StatusForbidden || MessageOf(err) != "Pending" {
		t.Fatal("helpers did not read the error")
	}
}

func TestErrorFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"name is required"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	err := c.Post(context.Background(), "/departments", map[string]string{}, nil)
	if MessageOf(err) != "name is required" {
		t.Fatalf("expected error field fallback, got %q", MessageOf(err))
	}
}

func TestNetworkErrorDistinguishable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, _ := New(addr, nil)
	err := c.Get(context.Background(), "/departments", nil, nil)
	if !IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	if StatusOf(err) != 0 {
		t.Fatalf("network error has no status, got %d", StatusOf(err))
	}
}

func TestUnauthorizedHookDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	}))
	defer srv.Close()

	var hooked string
	c, _ := New(srv.URL, staticToken("stale"), WithUnauthorizedHook(func(path string) { hooked = path }))
	err := c.Get(context.Background(), "/employees", nil, nil)
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if hooked != "/employees" {
		t.Fatalf("expected hook for /employees, got %q", hooked)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("  ", nil); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got %v", err)
	}
}
