// Package fakeapi is an in-memory stand-in for the HR backend REST surface.
// Tests point the API client at it through httptest and steer it with
// failure injection and request hooks.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"hrconsole/internal/domain/auth"
)

type Doc = map[string]any

type access int

const (
	public access = iota
	anyUser
	staffOnly
	adminOnly
)

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Request struct {
	Method  string
	Path    string
	Pattern string
	Query   url.Values
	Auth    string
	Body    json.RawMessage
}

type Failure struct {
	Status int
	Body   any
}

type Server struct {
	secret   []byte
	tokenTTL time.Duration
	router   chi.Router

	mu          sync.Mutex
	users       map[string]*User
	colls       map[string][]Doc
	failures    map[string]Failure
	hooks       []func(*http.Request)
	requests    []Request
	legacyToken bool
	omitToken   bool
}

type ctxKey struct{}

func New() *Server {
	s := &Server{
		secret:   []byte("fakeapi-secret"),
		tokenTTL: time.Hour,
		users:    map[string]*User{},
		colls:    map[string][]Doc{},
		failures: map[string]Failure{},
	}
	s.colls[CollLeaveTypes] = []Doc{
		{"_id": "lt-annual", "name": "Annual"},
		{"_id": "lt-sick", "name": "Sick"},
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Fail makes every request matching method and route pattern answer with
// status and body until Clear is called.
func (s *Server) Fail(method, pattern string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+pattern] = Failure{Status: status, Body: body}
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]Failure{}
}

// OnRequest registers fn to run before each request is handled. fn may block.
func (s *Server) OnRequest(fn func(*http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// UseLegacyTokenField makes login answer with "token" instead of "accessToken".
func (s *Server) UseLegacyTokenField() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacyToken = true
}

// OmitLoginToken makes login succeed without any token in the body.
func (s *Server) OmitLoginToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitToken = true
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit method and route pattern.
func (s *Server) Count(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Pattern == pattern {
			n++
		}
	}
	return n
}

func (s *Server) IssueToken(userID string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return "", errors.New("unknown user")
	}
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Server) handle(r chi.Router, method, pattern string, level access, h http.HandlerFunc) {
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		var body json.RawMessage
		if req.Body != nil {
			_ = json.NewDecoder(req.Body).Decode(&body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:  method,
			Path:    req.URL.Path,
			Pattern: pattern,
			Query:   req.URL.Query(),
			Auth:    req.Header.Get("Authorization"),
			Body:    body,
		})
		hooks := append([]func(*http.Request){}, s.hooks...)
		failure, failing := s.failures[method+" "+pattern]
		s.mu.Unlock()

		for _, hook := range hooks {
			hook(req)
		}
		if failing {
			writeJSON(w, failure.Status, failure.Body)
			return
		}

		if level != public {
			raw := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
			claims, err := s.parseToken(raw)
			if raw == "" || err != nil {
				writeJSON(w, http.StatusUnauthorized, Doc{"message": "Not authorized, token failed"})
				return
			}
			role := auth.NormalizeRole(claims.Role)
			if (level == staffOnly && !role.In(auth.Staff...)) || (level == adminOnly && role != auth.RoleAdmin) {
				writeJSON(w, http.StatusForbidden, Doc{"message": "Access denied"})
				return
			}
			req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, claims))
		}
		if len(body) > 0 {
			req.Body = readCloser(body)
		}
		h(w, req)
	})
}

func claimsFrom(r *http.Request) *Claims {
	c, _ := r.Context().Value(ctxKey{}).(*Claims)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decode(r *http.Request) Doc {
	doc := Doc{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&doc)
	}
	return doc
}
