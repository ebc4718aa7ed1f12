package leave

import "hrconsole/internal/domain/resource"

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type Type struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Days int    `json:"days,omitempty"`
}

func (t Type) RecordID() string { return t.ID }

type Request struct {
	ID        string       `json:"_id"`
	Employee  resource.Ref `json:"employee"`
	LeaveType resource.Ref `json:"leaveType"`
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Reason    string       `json:"reason,omitempty"`
	Status    string       `json:"status"`
}

func (r Request) RecordID() string { return r.ID }

type Input struct {
	LeaveTypeID string `json:"leaveTypeId" validate:"required"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	Reason      string `json:"reason,omitempty" validate:"max=500"`
	EmployeeID  string `json:"employeeId"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}
