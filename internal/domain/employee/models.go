package employee

import (
	"net/url"
	"strconv"

	"hrconsole/internal/domain/resource"
)

const DefaultLimit = 10

type Employee struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	Department  resource.Ref `json:"department"`
	Designation resource.Ref `json:"designation"`
	JobTitle    string       `json:"jobTitle,omitempty"`
	Salary      float64      `json:"salary,omitempty"`
	JoiningDate string       `json:"joiningDate,omitempty"`
	Status      string       `json:"status,omitempty"`
	User        string       `json:"user,omitempty"`
}

func (e Employee) RecordID() string { return e.ID }

type Input struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone,omitempty" validate:"max=30"`
	Department  string  `json:"department,omitempty"`
	Designation string  `json:"designation,omitempty"`
	Salary      float64 `json:"salary,omitempty" validate:"gte=0"`
	JoiningDate string  `json:"joiningDate,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
}

type ProfileInput struct {
	Name    string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address string `json:"address,omitempty" validate:"omitempty,max=200"`
}

// Query is the employee list filter. Pages replace each other; nothing accumulates.
type Query struct {
	Search      string `json:"search,omitempty"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Status      string `json:"status,omitempty"`
	Page        int    `json:"page,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Department != "" {
		v.Set("department", q.Department)
	}
	if q.Designation != "" {
		v.Set("designation", q.Designation)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	return v
}
