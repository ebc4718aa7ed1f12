package leave

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

const (
	dateLayout    = "2006-01-02"
	msgNoEmployee = "No employee is linked to this account"
)

var (
	TypesSpec = resource.Spec{
		Name:     "leave_types",
		Path:     "/leaves/types",
		Messages: resource.Messages{Fetch: "Failed to fetch leave types"},
	}
	MineSpec = resource.Spec{
		Name:      "leaves",
		Path:      "/leaves/personal",
		RecordKey: "leaveRequest",
		Messages:  resource.Messages{Fetch: "Failed to fetch leaves", Create: "Failed to apply"},
	}
	AllSpec = resource.Spec{
		Name:      "leave_requests",
		Path:      "/leaves",
		RecordKey: "request",
		Roles:     auth.Staff,
		Messages:  resource.Messages{Fetch: "Failed to fetch leave requests", Update: "Failed to update"},
	}
)

type Service struct {
	Types   *resource.Store[Type]
	Mine    *resource.Store[Request]
	All     *resource.Store[Request]
	session resource.SessionView
}

func New(deps resource.Deps) *Service {
	return &Service{
		Types:   resource.NewFrom[Type](TypesSpec, deps),
		Mine:    resource.NewFrom[Request](MineSpec, deps),
		All:     resource.NewFrom[Request](AllSpec, deps),
		session: deps.Session,
	}
}

func (s *Service) FetchTypes(ctx context.Context) ([]Type, error) {
	return s.Types.Fetch(ctx, nil)
}

// Apply files a request for the signed-in identity; it lands first in Mine.
func (s *Service) Apply(ctx context.Context, in Input) (Request, error) {
	snap := s.session.Snapshot()
	if !snap.Authenticated() {
		return Request{}, result.New(result.CodeUnauthorized, MineSpec.Messages.Create)
	}
	in.EmployeeID = snap.Identity.ID
	if err := validation.Struct(in); err != nil {
		return Request{}, result.Validation(err)
	}
	if err := checkRange(in.StartDate, in.EndDate); err != nil {
		return Request{}, err
	}
	rec, err := s.Mine.Write(ctx, http.MethodPost, "/leaves/apply", in, MineSpec.Messages.Create)
	if err != nil {
		return Request{}, err
	}
	s.Mine.Patch(func(items []Request) []Request { return resource.Prepend(items, rec) })
	return rec, nil
}

func (s *Service) FetchMine(ctx context.Context) ([]Request, error) {
	id := s.session.Snapshot().Identity.ID
	if id == "" && s.Mine.Allowed() {
		return nil, result.New(result.CodeValidation, msgNoEmployee)
	}
	return s.Mine.FetchPath(ctx, MineSpec.Path+"/"+url.PathEscape(id), nil)
}

func (s *Service) FetchAll(ctx context.Context) ([]Request, error) {
	return s.All.FetchPath(ctx, AllSpec.Path+"/all", nil)
}

// UpdateStatus approves or rejects a request and patches it in All.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Request, error) {
	body := statusRequest{Status: status}
	if err := validation.Struct(body); err != nil {
		return Request{}, result.Validation(err)
	}
	if err := s.All.Require(auth.PermLeaveApprove, AllSpec.Messages.Update); err != nil {
		return Request{}, err
	}
	rec, err := s.All.Write(ctx, http.MethodPut, s.All.ItemPath(id)+"/status", body, AllSpec.Messages.Update)
	if err != nil {
		return Request{}, err
	}
	s.All.Patch(func(items []Request) []Request { return resource.Replace(items, id, rec) })
	return rec, nil
}

func (s *Service) Clear() {
	s.Types.Clear()
	s.Mine.Clear()
	s.All.Clear()
}

func checkRange(start, end string) error {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return result.New(result.CodeValidation, "startDate must be a date (YYYY-MM-DD)")
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return result.New(result.CodeValidation, "endDate must be a date (YYYY-MM-DD)")
	}
	if to.Before(from) {
		return result.New(result.CodeValidation, "endDate must not be before startDate")
	}
	return nil
}
