package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

var Spec = resource.Spec{
	Name:      "payrolls",
	Path:      "/payrolls",
	ListKey:   "payrolls",
	RecordKey: "payroll",
	Roles:     auth.Staff,
	WritePerm: auth.PermPayrollRun,
	Messages: resource.Messages{
		Update: "Failed to update status",
	},
}

type Service struct {
	*resource.Store[Payroll]
	api resource.API
	log zerolog.Logger

	mu     sync.Mutex
	period Period
}

func New(deps resource.Deps) *Service {
	return &Service{
		Store: resource.NewFrom[Payroll](Spec, deps),
		api:   deps.API,
		log:   deps.Log.With().Str("resource", Spec.Name).Logger(),
	}
}

// FetchPeriod loads the payroll run of one month. A zero period loads all runs.
func (s *Service) FetchPeriod(ctx context.Context, p Period) ([]Payroll, error) {
	s.mu.Lock()
	s.period = p
	s.mu.Unlock()
	return s.Fetch(ctx, p.Values())
}

func (s *Service) Period() Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.FetchPeriod(ctx, s.Period())
	if errors.Is(err, resource.ErrStale) {
		return nil
	}
	return err
}

// Generate creates the payroll run for p and then refetches that period.
func (s *Service) Generate(ctx context.Context, p Period) (string, error) {
	if err := validation.Struct(p); err != nil {
		return "", result.Validation(err)
	}
	if err := s.Require(auth.PermPayrollRun, "Failed to generate payroll"); err != nil {
		return "", err
	}
	var resp generateResponse
	if err := s.api.Post(ctx, Spec.Path+"/generate", p, &resp); err != nil {
		return "", result.FromError(err, "Failed to generate payroll")
	}
	if _, err := s.FetchPeriod(ctx, p); err != nil && !errors.Is(err, resource.ErrStale) {
		s.log.Warn().Err(err).Int("month", p.Month).Int("year", p.Year).Msg("refetch after generate failed")
	}
	return resp.Message, nil
}

// UpdateStatus marks a payroll Paid or Pending and patches it in place.
func (s *Service) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (Payroll, error) {
	if err := validation.Struct(upd); err != nil {
		return Payroll{}, result.Validation(err)
	}
	return s.Store.Update(ctx, id, upd)
}

func (s *Service) EmployeeHistory(ctx context.Context, employeeID string) ([]Payroll, error) {
	if err := s.Require(auth.PermPayrollRead, "Failed to fetch history"); err != nil {
		return nil, err
	}
	return s.history(ctx, Spec.Path+"/employee/"+url.PathEscape(employeeID), "Failed to fetch history")
}

func (s *Service) MyHistory(ctx context.Context) ([]Payroll, error) {
	if err := s.Require(auth.PermProfileSelf, "Failed to fetch payroll history"); err != nil {
		return nil, err
	}
	return s.history(ctx, Spec.Path+"/my-history", "Failed to fetch payroll history")
}

func (s *Service) history(ctx context.Context, path, fallback string) ([]Payroll, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, path, nil, &raw); err != nil {
		return nil, result.FromError(err, fallback)
	}
	page, err := resource.DecodeList[Payroll](raw, Spec.ListKey)
	if err != nil {
		return nil, result.FromError(err, fallback)
	}
	return page.Items, nil
}
