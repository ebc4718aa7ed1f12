// Package session owns the authenticated identity and bearer token. It is the
// only writer of the persisted token/user pair and notifies subscribers after
// every state transition.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/apiclient"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/platform/storage"
	"hrconsole/internal/platform/validation"
)

// API is the subset of the API client the session needs.
type API interface {
	Post(ctx context.Context, path string, body, out any) error
}

type Observer func(Snapshot)

type subscription struct {
	id int
	fn Observer
}

type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	storage   storage.Storage
	api       API
	log       zerolog.Logger
	observers []subscription
	nextID    int
}

func New(st storage.Storage, api API, log zerolog.Logger) (*Store, error) {
	if st == nil {
		return nil, ErrNoStorage
	}
	return &Store{
		storage: st,
		api:     api,
		log:     log,
	}, nil
}

// TokenSource exposes the persisted token read-only, for the API client.
func TokenSource(r storage.Reader) apiclient.TokenSource {
	return apiclient.TokenFunc(func(ctx context.Context) (string, error) {
		token, _, err := r.Get(ctx, KeyToken)
		if errors.Is(err, storage.ErrUnreadable) {
			return "", nil
		}
		return token, err
	})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn for every future transition and returns its cancel func.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Restore resolves the session from storage without a network round trip.
func (s *Store) Restore(ctx context.Context) error {
	token, hasToken, err := s.storage.Get(ctx, KeyToken)
	if errors.Is(err, storage.ErrUnreadable) {
		s.log.Warn().Err(err).Msg("persisted session unreadable, discarding it")
		if err := s.storage.Delete(ctx, KeyToken, KeyUser); err != nil {
			s.transition(Snapshot{State: Anonymous})
			return fmt.Errorf("discard unreadable session: %w", err)
		}
		s.transition(Snapshot{State: Anonymous})
		return nil
	}
	if err != nil {
		s.transition(Snapshot{State: Anonymous})
		return err
	}
	if !hasToken || token == "" {
		s.transition(Snapshot{State: Anonymous})
		return nil
	}

	next := Snapshot{State: Authenticated, Token: token}
	raw, hasUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		s.log.Warn().Err(err).Msg("read persisted identity")
	}
	if hasUser && raw != "" {
		if err := json.Unmarshal([]byte(raw), &next.Identity); err != nil {
			s.log.Warn().Err(err).Msg("persisted identity is unreadable, keeping token only")
			next.Identity = auth.Identity{}
		}
	}
	s.transition(next)
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) (auth.Identity, error) {
	in := LoginInput{Email: strings.TrimSpace(email), Password: password}
	if err := validation.Struct(in); err != nil {
		return auth.Identity{}, result.Validation(err)
	}

	var resp loginResponse
	if err := s.api.Post(ctx, "/auth/login", in, &resp); err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden && apiErr.ApprovalStatus != "" {
			s.log.Info().Str("email", in.Email).Str("approvalStatus", apiErr.ApprovalStatus).Msg("login blocked pending approval")
			return auth.Identity{}, &result.Failure{
				Code:           result.CodePendingApproval,
				Message:        apiErr.Message,
				Status:         apiErr.Status,
				ApprovalStatus: apiErr.ApprovalStatus,
				Err:            err,
			}
		}
		return auth.Identity{}, result.FromError(err, msgLoginFailed)
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		s.log.Warn().Str("email", in.Email).Msg("login response carried no token")
		return auth.Identity{}, result.New(result.CodeHTTP, msgTokenMissing)
	}

	identity := auth.Identity{Email: in.Email}
	if len(resp.User) > 0 && string(resp.User) != "null" {
		if err := json.Unmarshal(resp.User, &identity); err != nil {
			return auth.Identity{}, result.FromError(err, msgLoginFailed)
		}
	}
	encoded, err := json.Marshal(identity)
	if err != nil {
		return auth.Identity{}, result.FromError(err, msgLoginFailed)
	}
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return auth.Identity{}, result.FromError(err, msgLoginFailed)
	}
	if err := s.storage.Set(ctx, KeyUser, string(encoded)); err != nil {
		_ = s.storage.Delete(ctx, KeyToken)
		return auth.Identity{}, result.FromError(err, msgLoginFailed)
	}

	s.log.Info().Str("userId", identity.ID).Str("role", string(identity.Role)).Msg("signed in")
	s.transition(Snapshot{State: Authenticated, Identity: identity, Token: token})
	return identity, nil
}

// Signup creates an account awaiting approval. The session is not touched.
func (s *Store) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return "", result.Validation(err)
	}
	var resp messageResponse
	if err := s.api.Post(ctx, "/auth/signup", in, &resp); err != nil {
		return "", result.FromError(err, msgSignupFailed)
	}
	return resp.Message, nil
}

// Register creates an account on behalf of someone else. The session is not touched.
func (s *Store) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.RoleName) == "" {
		in.RoleName = string(auth.RoleEmployee)
	} else if role := auth.NormalizeRole(in.RoleName); role != "" {
		in.RoleName = string(role)
	}
	if err := validation.Struct(in); err != nil {
		return "", result.Validation(err)
	}
	var resp messageResponse
	if err := s.api.Post(ctx, "/auth/register", in, &resp); err != nil {
		return "", result.FromError(err, msgRegisterFailed)
	}
	return resp.Message, nil
}

// Logout clears the persisted pair. Calling it while anonymous does nothing.
func (s *Store) Logout(ctx context.Context) error {
	if s.Snapshot().State == Anonymous {
		return nil
	}
	if err := s.storage.Delete(ctx, KeyToken, KeyUser); err != nil {
		return err
	}
	s.log.Info().Msg("signed out")
	s.transition(Snapshot{State: Anonymous})
	return nil
}

func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	if !s.Snapshot().Authenticated() {
		return "", result.New(result.CodeUnauthorized, msgNotSignedIn)
	}
	in := PasswordChange{OldPassword: oldPassword, NewPassword: newPassword}
	if err := validation.Struct(in); err != nil {
		return "", result.Validation(err)
	}
	var resp messageResponse
	if err := s.api.Post(ctx, "/auth/change-password", in, &resp); err != nil {
		return "", result.FromError(err, msgPasswordFailed)
	}
	return resp.Message, nil
}

// TokenExpiry reads the exp claim of the stored token without verifying it.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Snapshot().Token
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// HandleUnauthorized signs out when the backend rejects a token that has
// already expired. Rejections of a still-valid token are left to the caller.
func (s *Store) HandleUnauthorized(ctx context.Context) bool {
	if !s.Snapshot().Authenticated() {
		return false
	}
	exp, ok := s.TokenExpiry()
	if !ok || time.Now().Before(exp) {
		return false
	}
	if err := s.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("sign out after expired token")
		return false
	}
	return true
}

func (s *Store) transition(next Snapshot) {
	s.mu.Lock()
	s.snap = next
	observers := make([]Observer, 0, len(s.observers))
	for _, sub := range s.observers {
		observers = append(observers, sub.fn)
	}
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(next.State.String()).Inc()
	for _, fn := range observers {
		fn(next)
	}
}
