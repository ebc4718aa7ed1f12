// Package analytics holds the staff dashboard figures. Unlike the collection
// stores it keeps a single document.
package analytics

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/metrics"
)

const (
	Path        = "/dashboard/analytics"
	msgFetch    = "Failed to fetch analytics"
	metricLabel = "analytics"
)

type Service struct {
	api     resource.API
	session resource.SessionView
	log     zerolog.Logger

	mu       sync.RWMutex
	data     Dashboard
	inflight int
	errMsg   string
	seq      uint64
}

func New(deps resource.Deps) *Service {
	return &Service{
		api:     deps.API,
		session: deps.Session,
		log:     deps.Log.With().Str("resource", metricLabel).Logger(),
		data:    Dashboard{}.derive(),
	}
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Data: s.data, Loading: s.inflight > 0, Error: s.errMsg}
}

func (s *Service) Allowed() bool {
	snap := s.session.Snapshot()
	return snap.Authenticated() && snap.Role().In(auth.Staff...)
}

func (s *Service) Fetch(ctx context.Context) (Dashboard, error) {
	if !s.Allowed() {
		return Dashboard{}, result.NotPermitted(msgFetch)
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inflight++
	s.mu.Unlock()

	var raw Dashboard
	err := s.api.Get(ctx, Path, nil, &raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if seq < s.seq {
		metrics.StaleFetchesTotal.WithLabelValues(metricLabel).Inc()
		return Dashboard{}, resource.ErrStale
	}
	if err != nil {
		f := result.FromError(err, msgFetch)
		s.errMsg = f.Error()
		s.log.Warn().Err(err).Msg("fetch failed")
		return Dashboard{}, f
	}
	s.data = raw.derive()
	s.errMsg = ""
	return s.data, nil
}

func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Fetch(ctx)
	if errors.Is(err, resource.ErrStale) {
		return nil
	}
	return err
}

func (s *Service) Clear() {
	s.mu.Lock()
	s.seq++
	s.data = Dashboard{}.derive()
	s.errMsg = ""
	s.mu.Unlock()
}
