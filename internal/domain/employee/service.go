package employee

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

const profilePath = "/employees/profile/me"

var Spec = resource.Spec{
	Name:       "employees",
	Path:       "/employees",
	ListKey:    "employees",
	RecordKey:  "employee",
	Roles:      auth.Staff,
	WritePerm:  auth.PermEmployeesWrite,
	DeletePerm: auth.PermEmployeesDelete,
}

type Service struct {
	*resource.Store[Employee]
	api    resource.API
	log    zerolog.Logger
	search *resource.Debouncer[Query]

	mu    sync.Mutex
	query Query
	// owner is the identity the query was set under.
	owner string
}

func New(deps resource.Deps, debounce time.Duration) *Service {
	s := &Service{
		Store: resource.NewFrom[Employee](Spec, deps),
		api:   deps.API,
		log:   deps.Log.With().Str("resource", Spec.Name).Logger(),
	}
	s.search = resource.NewDebouncer(debounce, func(q Query) {
		if _, err := s.FetchPage(context.Background(), q); err != nil && !errors.Is(err, resource.ErrStale) {
			s.log.Warn().Err(err).Str("search", q.Search).Msg("debounced search failed")
		}
	})
	return s
}

// FetchPage replaces the cached page with the one matching q.
func (s *Service) FetchPage(ctx context.Context, q Query) ([]Employee, error) {
	owner := s.Session().Snapshot().Identity.ID
	s.mu.Lock()
	s.query = q
	s.owner = owner
	s.mu.Unlock()
	return s.Fetch(ctx, q.Values())
}

// Search schedules FetchPage(q) once the caller stops changing the filter.
func (s *Service) Search(q Query) {
	s.search.Trigger(q)
}

func (s *Service) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Refresh reloads the page last asked for by the signed-in identity. After an
// account switch it starts again from the unfiltered first page.
func (s *Service) Refresh(ctx context.Context) error {
	current := s.Session().Snapshot().Identity.ID
	s.mu.Lock()
	q := s.query
	if s.owner != current {
		q = Query{}
	}
	s.mu.Unlock()
	_, err := s.FetchPage(ctx, q)
	if errors.Is(err, resource.ErrStale) {
		return nil
	}
	return err
}

// Clear drops the page, the remembered filter and any pending search.
func (s *Service) Clear() {
	s.search.Stop()
	s.mu.Lock()
	s.query = Query{}
	s.owner = ""
	s.mu.Unlock()
	s.Store.Clear()
}

func (s *Service) Close() {
	s.search.Stop()
}

func (s *Service) Create(ctx context.Context, in Input) (Employee, error) {
	if err := validation.Struct(in); err != nil {
		return Employee{}, result.Validation(err)
	}
	return s.Store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Employee, error) {
	if err := validation.Struct(in); err != nil {
		return Employee{}, result.Validation(err)
	}
	return s.Store.Update(ctx, id, in)
}

// MyProfile loads the employee record linked to the signed-in account.
func (s *Service) MyProfile(ctx context.Context) (Employee, error) {
	if !s.signedIn() {
		return Employee{}, result.New(result.CodeUnauthorized, "Failed to fetch profile")
	}
	var raw json.RawMessage
	if err := s.api.Get(ctx, profilePath, nil, &raw); err != nil {
		return Employee{}, result.FromError(err, "Failed to fetch profile")
	}
	emp, err := resource.DecodeRecord[Employee](raw, Spec.RecordKey)
	if err != nil {
		return Employee{}, result.FromError(err, "Failed to fetch profile")
	}
	return emp, nil
}

func (s *Service) UpdateMyProfile(ctx context.Context, in ProfileInput) (Employee, error) {
	if !s.signedIn() {
		return Employee{}, result.New(result.CodeUnauthorized, "Failed to update profile")
	}
	if err := validation.Struct(in); err != nil {
		return Employee{}, result.Validation(err)
	}
	emp, err := s.Write(ctx, http.MethodPut, profilePath, in, "Failed to update profile")
	if err != nil {
		return Employee{}, err
	}
	s.Patch(func(items []Employee) []Employee { return resource.Replace(items, emp.ID, emp) })
	return emp, nil
}

func (s *Service) signedIn() bool {
	return s.Session().Snapshot().Authenticated()
}
