package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hrconsole/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type rateBucket struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	clients map[string]*rateBucket
	log     zerolog.Logger
}

// RateLimit allows limit requests per key and window; keyFn defaults to the
// peer address.
func RateLimit(limit int, window time.Duration, keyFn RateLimitKeyFunc, log zerolog.Logger) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, window, keyFn, log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CredentialThrottle limits sign-in and sign-up attempts both per client IP
// and per submitted email, before they reach the backend. ipKey defaults to
// the peer address.
func CredentialThrottle(limit int, window time.Duration, ipKey RateLimitKeyFunc, log zerolog.Logger) func(http.Handler) http.Handler {
	if ipKey == nil {
		ipKey = ClientIP(false)
	}
	byIP := newRateLimiter(limit, window, ipKey, log)
	byEmail := newRateLimiter(limit, window, EmailOrIPKey("email", ipKey), log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if !byIP.enforce(w, r) || !byEmail.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func EmailOrIPKey(field string, ipKey RateLimitKeyFunc) RateLimitKeyFunc {
	if ipKey == nil {
		ipKey = ClientIP(false)
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, field)
		if email == "" {
			return ipKey(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

// ClientIP keys by the peer address. X-Forwarded-For is only honoured when
// trustProxy is set, i.e. the console sits behind a proxy that overwrites it.
func ClientIP(trustProxy bool) RateLimitKeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
				if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
					return first
				}
			}
		}
		return peerAddr(r)
	}
}

func peerAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func newRateLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc, log zerolog.Logger) *rateLimiter {
	if keyFn == nil {
		keyFn = peerAddr
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		clients: map[string]*rateBucket{},
		log:     log,
	}
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}

	key := rl.keyFn(r)
	now := time.Now()

	rl.mu.Lock()
	bucket, ok := rl.clients[key]
	if !ok || now.After(bucket.reset) {
		bucket = &rateBucket{reset: now.Add(rl.window)}
		rl.clients[key] = bucket
	}
	bucket.count++
	remaining := rl.limit - bucket.count
	resetIn := durationSeconds(bucket.reset.Sub(now))
	overLimit := bucket.count > rl.limit
	rl.mu.Unlock()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

	if overLimit {
		w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
		rl.log.Warn().
			Str("key", key).
			Str("path", r.URL.Path).
			Int("limit", rl.limit).
			Msg("rate limit exceeded")
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many attempts, try again later", GetRequestID(r.Context()))
		return false
	}
	return true
}

func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return max(int(d.Seconds()), 1)
}

// extractJSONField peeks at a string field of a JSON body and restores the body.
func extractJSONField(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
