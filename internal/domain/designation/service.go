package designation

import (
	"context"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

var Spec = resource.Spec{
	Name:       "designations",
	Path:       "/designations",
	ListKey:    "designations",
	Roles:      auth.Staff,
	WritePerm:  auth.PermOrgWrite,
	DeletePerm: auth.PermOrgDelete,
}

type Service struct {
	*resource.Store[Designation]
	api resource.API
}

func New(deps resource.Deps) *Service {
	return &Service{Store: resource.NewFrom[Designation](Spec, deps), api: deps.API}
}

func (s *Service) Create(ctx context.Context, in Input) (Designation, error) {
	if err := validation.Struct(in); err != nil {
		return Designation{}, result.Validation(err)
	}
	return s.Store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Designation, error) {
	if err := validation.Struct(in); err != nil {
		return Designation{}, result.Validation(err)
	}
	return s.Store.Update(ctx, id, in)
}

func (s *Service) AssignEmployee(ctx context.Context, id, employeeID string) error {
	if employeeID == "" {
		return result.New(result.CodeValidation, "Select an employee")
	}
	if err := s.Require(auth.PermOrgWrite, "Failed to assign employee"); err != nil {
		return err
	}
	body := map[string]string{"employeeId": employeeID}
	if err := s.api.Post(ctx, s.ItemPath(id)+"/assign-employee", body, nil); err != nil {
		return result.FromError(err, "Failed to assign employee")
	}
	return nil
}
