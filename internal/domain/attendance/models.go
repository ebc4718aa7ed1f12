package attendance

import (
	"net/url"
	"strconv"

	"hrconsole/internal/domain/resource"
)

type Record struct {
	ID       string       `json:"_id"`
	Employee resource.Ref `json:"employee"`
	Date     string       `json:"date"`
	CheckIn  string       `json:"checkIn,omitempty"`
	CheckOut string       `json:"checkOut,omitempty"`
	Status   string       `json:"status,omitempty"`
}

func (r Record) RecordID() string { return r.ID }

func (r Record) CheckedOut() bool { return r.CheckOut != "" }

// Filter narrows history and report lists to one month.
type Filter struct {
	Month int `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
	Year  int `json:"year,omitempty" validate:"omitempty,gte=2000,lte=2100"`
}

func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Month > 0 {
		v.Set("month", strconv.Itoa(f.Month))
	}
	if f.Year > 0 {
		v.Set("year", strconv.Itoa(f.Year))
	}
	return v
}

type punchRequest struct {
	EmployeeID string `json:"employeeId"`
}
