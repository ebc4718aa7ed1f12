package department

import (
	"context"
	"encoding/json"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/validation"
)

const (
	// recordKey wraps the department in assignment responses.
	recordKey = "department"
	msgAssign = "Failed to assign employees"
)

var Spec = resource.Spec{
	Name:       "departments",
	Path:       "/departments",
	ListKey:    "departments",
	Roles:      auth.Staff,
	WritePerm:  auth.PermOrgWrite,
	DeletePerm: auth.PermOrgDelete,
	Messages: resource.Messages{
		Fetch:  "Failed to fetch departments",
		Create: "Failed to add department",
		Update: "Failed to update department",
		Remove: "Failed to delete department",
	},
}

type Service struct {
	*resource.Store[Department]
	api resource.API
}

func New(deps resource.Deps) *Service {
	return &Service{Store: resource.NewFrom[Department](Spec, deps), api: deps.API}
}

func (s *Service) Create(ctx context.Context, in Input) (Department, error) {
	if err := validation.Struct(in); err != nil {
		return Department{}, result.Validation(err)
	}
	return s.Store.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Department, error) {
	if err := validation.Struct(in); err != nil {
		return Department{}, result.Validation(err)
	}
	return s.Store.Update(ctx, id, in)
}

// AssignEmployees adds employeeIDs to the department. The cached copy is
// replaced by the one the backend returns; without one the new ids are merged
// into the members already cached.
func (s *Service) AssignEmployees(ctx context.Context, id string, employeeIDs []string) error {
	if len(employeeIDs) == 0 {
		return result.New(result.CodeValidation, "Select at least one employee")
	}
	if err := s.Require(auth.PermOrgWrite, msgAssign); err != nil {
		return err
	}
	var raw json.RawMessage
	if err := s.api.Post(ctx, s.ItemPath(id)+"/assign-employees", assignRequest{EmployeeIDs: employeeIDs}, &raw); err != nil {
		return result.FromError(err, msgAssign)
	}
	if dept, err := resource.DecodeRecord[Department](raw, recordKey); err == nil && dept.ID == id {
		s.Patch(func(items []Department) []Department { return resource.Replace(items, id, dept) })
		return nil
	}
	if dept, ok := s.Get(id); ok {
		dept.Employees = mergeMembers(dept.Employees, employeeIDs)
		s.Patch(func(items []Department) []Department { return resource.Replace(items, id, dept) })
	}
	return nil
}

func mergeMembers(members []resource.Ref, ids []string) []resource.Ref {
	out := make([]resource.Ref, 0, len(members)+len(ids))
	seen := make(map[string]bool, len(members)+len(ids))
	for _, m := range members {
		seen[m.ID] = true
		out = append(out, m)
	}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, resource.Ref{ID: id})
	}
	return out
}
