package department

import "hrconsole/internal/domain/resource"

type Department struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Employees   []resource.Ref `json:"employees,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
}

func (d Department) RecordID() string { return d.ID }

type Input struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type assignRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
}
