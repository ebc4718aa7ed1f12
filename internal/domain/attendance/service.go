// Package attendance covers self check-in/out with personal history, and the
// staff-wide attendance report.
package attendance

import (
	"context"
	"net/http"
	"net/url"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

var (
	HistorySpec = resource.Spec{
		Name:      "attendance",
		Path:      "/attendance/personal",
		RecordKey: "attendance",
		Messages:  resource.Messages{Fetch: "Failed to fetch attendance"},
	}
	ReportSpec = resource.Spec{
		Name:     "attendance_report",
		Path:     "/attendance/all",
		Roles:    auth.Staff,
		Messages: resource.Messages{Fetch: "Failed to fetch reports"},
	}
)

const msgNoEmployee = "No employee is linked to this account"

type Service struct {
	History *resource.Store[Record]
	Report  *resource.Store[Record]
	session resource.SessionView
}

func New(deps resource.Deps) *Service {
	return &Service{
		History: resource.NewFrom[Record](HistorySpec, deps),
		Report:  resource.NewFrom[Record](ReportSpec, deps),
		session: deps.Session,
	}
}

func (s *Service) CheckIn(ctx context.Context) (Record, error) {
	return s.punch(ctx, "/attendance/check-in", "Failed to check in")
}

func (s *Service) CheckOut(ctx context.Context) (Record, error) {
	return s.punch(ctx, "/attendance/check-out", "Failed to check out")
}

// punch records against the signed-in identity and patches today's entry
// into the personal history.
func (s *Service) punch(ctx context.Context, path, fallback string) (Record, error) {
	employeeID, err := s.employeeID(fallback)
	if err != nil {
		return Record{}, err
	}
	rec, err := s.History.Write(ctx, http.MethodPost, path, punchRequest{EmployeeID: employeeID}, fallback)
	if err != nil {
		return Record{}, err
	}
	s.History.Patch(func(items []Record) []Record { return resource.Append(items, rec) })
	return rec, nil
}

// FetchMine loads the signed-in identity's attendance history.
func (s *Service) FetchMine(ctx context.Context, f Filter) ([]Record, error) {
	if err := validation.Struct(f); err != nil {
		return nil, result.Validation(err)
	}
	employeeID, err := s.employeeID(HistorySpec.Messages.Fetch)
	if err != nil {
		return nil, err
	}
	return s.History.FetchPath(ctx, HistorySpec.Path+"/"+url.PathEscape(employeeID), f.Values())
}

func (s *Service) FetchAll(ctx context.Context, f Filter) ([]Record, error) {
	if err := validation.Struct(f); err != nil {
		return nil, result.Validation(err)
	}
	return s.Report.Fetch(ctx, f.Values())
}

func (s *Service) Clear() {
	s.History.Clear()
	s.Report.Clear()
}

func (s *Service) employeeID(fallback string) (string, error) {
	snap := s.session.Snapshot()
	if !snap.Authenticated() {
		return "", result.New(result.CodeUnauthorized, fallback)
	}
	if snap.Identity.ID == "" {
		return "", result.New(result.CodeValidation, msgNoEmployee)
	}
	return snap.Identity.ID, nil
}
