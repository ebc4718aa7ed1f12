// Package resource implements the collection store shared by every backend
// resource: role-gated fetch with stale-response protection, and writes that
// reconcile the cached collection from the server's canonical record.
package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/platform/metrics"
)

// API is the slice of the API client stores call.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// SessionView is the read side of the session store.
type SessionView interface {
	Snapshot() session.Snapshot
}

// Messages are the fallbacks shown when the backend gives no message.
type Messages struct {
	Fetch  string
	Create string
	Update string
	Remove string
}

type Spec struct {
	Name      string
	Path      string
	ListKey   string
	RecordKey string
	// Roles gates Fetch. Empty means any authenticated identity.
	Roles []auth.Role
	// WritePerm and DeletePerm gate writes. Empty means ungated.
	WritePerm  string
	DeletePerm string
	Messages   Messages
}

func (s Spec) withDefaults() Spec {
	label := strings.TrimSuffix(s.Name, "s")
	if s.Messages.Fetch == "" {
		s.Messages.Fetch = "Failed to fetch " + s.Name
	}
	if s.Messages.Create == "" {
		s.Messages.Create = "Failed to add " + label
	}
	if s.Messages.Update == "" {
		s.Messages.Update = "Failed to update " + label
	}
	if s.Messages.Remove == "" {
		s.Messages.Remove = "Failed to delete " + label
	}
	return s
}

// State is a consistent copy of a store for rendering.
type State[T any] struct {
	Items      []T    `json:"items"`
	TotalPages int    `json:"totalPages"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
}

type Store[T Record] struct {
	spec    Spec
	api     API
	session SessionView
	log     zerolog.Logger

	mu         sync.RWMutex
	items      []T
	totalPages int
	inflight   int
	errMsg     string
	seq        uint64
}

func New[T Record](spec Spec, api API, sess SessionView, log zerolog.Logger) *Store[T] {
	return &Store[T]{
		spec:       spec.withDefaults(),
		api:        api,
		session:    sess,
		log:        log.With().Str("resource", spec.Name).Logger(),
		items:      []T{},
		totalPages: 1,
	}
}

func (s *Store[T]) Spec() Spec {
	return s.spec
}

func (s *Store[T]) Session() SessionView {
	return s.session
}

func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return State[T]{
		Items:      items,
		TotalPages: s.totalPages,
		Loading:    s.inflight > 0,
		Error:      s.errMsg,
	}
}

func (s *Store[T]) Items() []T {
	return s.State().Items
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Find(s.items, id)
}

// Allowed reports whether the current session may fetch this resource.
func (s *Store[T]) Allowed() bool {
	snap := s.session.Snapshot()
	if !snap.Authenticated() {
		return false
	}
	return len(s.spec.Roles) == 0 || snap.Role().In(s.spec.Roles...)
}

func (s *Store[T]) Fetch(ctx context.Context, query url.Values) ([]T, error) {
	return s.FetchPath(ctx, s.spec.Path, query)
}

// FetchPath replaces the collection with the list at path. Responses that
// arrive after a newer dispatch are dropped with ErrStale.
func (s *Store[T]) FetchPath(ctx context.Context, path string, query url.Values) ([]T, error) {
	if !s.Allowed() {
		return nil, result.NotPermitted(s.spec.Messages.Fetch)
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inflight++
	s.mu.Unlock()

	var raw json.RawMessage
	err := s.api.Get(ctx, path, query, &raw)
	var page Page[T]
	if err == nil {
		page, err = DecodeList[T](raw, s.spec.ListKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if seq < s.seq {
		metrics.StaleFetchesTotal.WithLabelValues(s.spec.Name).Inc()
		s.log.Debug().Uint64("seq", seq).Uint64("latest", s.seq).Msg("stale fetch discarded")
		return nil, ErrStale
	}
	if err != nil {
		s.errMsg = s.spec.Messages.Fetch
		s.log.Warn().Err(err).Str("path", path).Msg("fetch failed")
		return nil, result.FromError(err, s.spec.Messages.Fetch)
	}
	s.items = page.Items
	s.totalPages = page.TotalPages
	s.errMsg = ""
	out := make([]T, len(page.Items))
	copy(out, page.Items)
	return out, nil
}

func (s *Store[T]) Create(ctx context.Context, payload any) (T, error) {
	var zero T
	if err := s.Require(s.spec.WritePerm, s.spec.Messages.Create); err != nil {
		return zero, err
	}
	rec, err := s.Write(ctx, http.MethodPost, s.spec.Path, payload, s.spec.Messages.Create)
	if err != nil {
		return zero, err
	}
	s.Patch(func(items []T) []T { return Append(items, rec) })
	return rec, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	var zero T
	if id == "" {
		return zero, result.Validation(ErrMissingID)
	}
	if err := s.Require(s.spec.WritePerm, s.spec.Messages.Update); err != nil {
		return zero, err
	}
	rec, err := s.Write(ctx, http.MethodPut, s.itemPath(id), patch, s.spec.Messages.Update)
	if err != nil {
		return zero, err
	}
	s.Patch(func(items []T) []T { return Replace(items, id, rec) })
	return rec, nil
}

func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if id == "" {
		return result.Validation(ErrMissingID)
	}
	if err := s.Require(s.spec.DeletePerm, s.spec.Messages.Remove); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, s.itemPath(id), nil); err != nil {
		return result.FromError(err, s.spec.Messages.Remove)
	}
	s.Patch(func(items []T) []T { return RemoveByID(items, id) })
	return nil
}

// Write sends payload and decodes the canonical record from the response,
// bare or under the store's record key. The collection is not touched.
func (s *Store[T]) Write(ctx context.Context, method, path string, payload any, fallback string) (T, error) {
	var zero T
	var raw json.RawMessage
	var err error
	switch method {
	case http.MethodPut:
		err = s.api.Put(ctx, path, payload, &raw)
	default:
		err = s.api.Post(ctx, path, payload, &raw)
	}
	if err != nil {
		return zero, result.FromError(err, fallback)
	}
	rec, err := DecodeRecord[T](raw, s.spec.RecordKey)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("write response unreadable")
		return zero, result.FromError(err, fallback)
	}
	return rec, nil
}

// Patch applies a reconcile function to the collection under the lock.
func (s *Store[T]) Patch(fn func([]T) []T) {
	s.mu.Lock()
	s.items = fn(s.items)
	s.mu.Unlock()
}

// Clear drops the cached collection and invalidates in-flight fetches.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.seq++
	s.items = []T{}
	s.totalPages = 1
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store[T]) ItemPath(id string) string {
	return s.itemPath(id)
}

func (s *Store[T]) itemPath(id string) string {
	return s.spec.Path + "/" + url.PathEscape(id)
}

// Require fails unless the session role holds perm. An empty perm always passes.
func (s *Store[T]) Require(perm, message string) error {
	if perm == "" {
		return nil
	}
	snap := s.session.Snapshot()
	if !snap.Authenticated() {
		return result.New(result.CodeUnauthorized, message)
	}
	if !auth.Can(snap.Role(), perm) {
		return result.Forbidden(message)
	}
	return nil
}

// Deps are the collaborators every resource service is built from.
type Deps struct {
	API     API
	Session SessionView
	Log     zerolog.Logger
}

func NewFrom[T Record](spec Spec, deps Deps) *Store[T] {
	return New[T](spec, deps.API, deps.Session, deps.Log)
}
