package payroll

import (
	"net/url"
	"strconv"

	"hrconsole/internal/domain/resource"
)

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"
)

type Payroll struct {
	ID          string       `json:"_id"`
	Employee    resource.Ref `json:"employee"`
	Month       int          `json:"month"`
	Year        int          `json:"year"`
	BasicSalary float64      `json:"basicSalary"`
	Allowances  float64      `json:"allowances"`
	Deductions  float64      `json:"deductions"`
	NetSalary   float64      `json:"netSalary"`
	Status      string       `json:"status"`
	PaymentDate string       `json:"paymentDate,omitempty"`
}

func (p Payroll) RecordID() string { return p.ID }

type Period struct {
	Month int `json:"month" validate:"gte=1,lte=12"`
	Year  int `json:"year" validate:"gte=2000,lte=2100"`
}

func (p Period) Values() url.Values {
	v := url.Values{}
	if p.Month > 0 {
		v.Set("month", strconv.Itoa(p.Month))
	}
	if p.Year > 0 {
		v.Set("year", strconv.Itoa(p.Year))
	}
	return v
}

type StatusUpdate struct {
	Status      string `json:"status" validate:"required,oneof=Pending Paid"`
	PaymentDate string `json:"paymentDate,omitempty"`
}

type generateResponse struct {
	Message string `json:"message"`
}
