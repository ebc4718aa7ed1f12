package salary

import "hrconsole/internal/domain/resource"

type Salary struct {
	ID          string       `json:"_id"`
	Employee    resource.Ref `json:"employee"`
	BasicSalary float64      `json:"basicSalary"`
	Allowances  float64      `json:"allowances"`
	Deductions  float64      `json:"deductions"`
	NetSalary   float64      `json:"netSalary"`
}

func (s Salary) RecordID() string { return s.ID }

type Input struct {
	EmployeeID  string  `json:"employeeId" validate:"required"`
	BasicSalary float64 `json:"basicSalary" validate:"gte=0"`
	Allowances  float64 `json:"allowances" validate:"gte=0"`
	Deductions  float64 `json:"deductions" validate:"gte=0"`
}

// Net is what the backend is expected to report as netSalary.
func (in Input) Net() float64 {
	return in.BasicSalary + in.Allowances - in.Deductions
}
