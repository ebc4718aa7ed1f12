package salary

import (
	"context"
	"encoding/json"
	"net/url"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

var Spec = resource.Spec{
	Name:      "salaries",
	Path:      "/salaries",
	ListKey:   "salaries",
	RecordKey: "salary",
	Roles:     auth.Staff,
	WritePerm: auth.PermSalaryWrite,
	Messages: resource.Messages{
		Create: "Failed to set salary",
		Update: "Failed to update salary",
	},
}

const msgFetchOne = "Failed to fetch salary"

type Service struct {
	*resource.Store[Salary]
	api resource.API
}

func New(deps resource.Deps) *Service {
	return &Service{Store: resource.NewFrom[Salary](Spec, deps), api: deps.API}
}

// Set records the salary structure of an employee that has none yet.
func (s *Service) Set(ctx context.Context, in Input) (Salary, error) {
	if err := validation.Struct(in); err != nil {
		return Salary{}, result.Validation(err)
	}
	if in.Net() < 0 {
		return Salary{}, result.New(result.CodeValidation, "deductions must not exceed basic salary plus allowances")
	}
	return s.Store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Salary, error) {
	if err := validation.Struct(in); err != nil {
		return Salary{}, result.Validation(err)
	}
	if in.Net() < 0 {
		return Salary{}, result.New(result.CodeValidation, "deductions must not exceed basic salary plus allowances")
	}
	return s.Store.Update(ctx, id, in)
}

func (s *Service) ForEmployee(ctx context.Context, employeeID string) (Salary, error) {
	if err := s.Require(auth.PermSalaryRead, msgFetchOne); err != nil {
		return Salary{}, err
	}
	return s.one(ctx, s.ItemPath("employee")+"/"+url.PathEscape(employeeID))
}

// Mine is the signed-in employee's own salary.
func (s *Service) Mine(ctx context.Context) (Salary, error) {
	if err := s.Require(auth.PermProfileSelf, msgFetchOne); err != nil {
		return Salary{}, err
	}
	return s.one(ctx, Spec.Path+"/my-salary")
}

func (s *Service) one(ctx context.Context, path string) (Salary, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, path, nil, &raw); err != nil {
		return Salary{}, result.FromError(err, msgFetchOne)
	}
	rec, ok, err := resource.DecodeOne[Salary](raw, Spec.RecordKey)
	if err != nil {
		return Salary{}, result.FromError(err, msgFetchOne)
	}
	if !ok {
		return Salary{}, result.New(result.CodeNotFound, "Salary not found")
	}
	return rec, nil
}
