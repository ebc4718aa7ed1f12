// Package result defines the failure outcome every store and session action
// returns instead of raw transport errors.
package result

import (
	"errors"
	"net/http"

	"hrconsole/internal/platform/apiclient"
)

type Code string

const (
	CodeNetwork         Code = "network"
	CodeHTTP            Code = "http"
	CodeUnauthorized    Code = "unauthorized"
	CodeForbidden       Code = "forbidden"
	CodePendingApproval Code = "pending_approval"
	CodeValidation      Code = "validation"
	CodeNotPermitted    Code = "not_permitted"
	CodeNotFound        Code = "not_found"
)

// Failure carries a message fit for display plus enough detail for routing
// decisions (pending approval, status).
type Failure struct {
	Code           Code
	Message        string
	Status         int
	ApprovalStatus string
	Err            error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func New(code Code, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func Validation(err error) *Failure {
	return &Failure{Code: CodeValidation, Message: err.Error(), Err: err}
}

func NotPermitted(message string) *Failure {
	return &Failure{Code: CodeNotPermitted, Message: message}
}

func Forbidden(message string) *Failure {
	return &Failure{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

// FromError normalizes err into a Failure. The backend message wins; fallback
// is used when the backend gave none.
func FromError(err error, fallback string) *Failure {
	if err == nil {
		return nil
	}
	var existing *Failure
	if errors.As(err, &existing) {
		return existing
	}

	f := &Failure{Code: CodeHTTP, Message: fallback, Err: err}
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return f
	}
	if apiErr.Network {
		f.Code = CodeNetwork
		return f
	}
	f.Status = apiErr.Status
	f.ApprovalStatus = apiErr.ApprovalStatus
	if apiErr.Message != "" {
		f.Message = apiErr.Message
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		f.Code = CodeUnauthorized
	case http.StatusForbidden:
		f.Code = CodeForbidden
	case http.StatusNotFound:
		f.Code = CodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		f.Code = CodeValidation
	}
	return f
}

// CodeOf returns the failure code of err, or "" when err is not a Failure.
func CodeOf(err error) Code {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}

// HTTPStatus maps a failure onto the status the console answers with.
func HTTPStatus(err error) int {
	var f *Failure
	if !errors.As(err, &f) {
		return http.StatusInternalServerError
	}
	switch f.Code {
	case CodeNetwork:
		return http.StatusBadGateway
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodePendingApproval, CodeNotPermitted:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	}
	if f.Status >= 400 {
		return f.Status
	}
	return http.StatusBadGateway
}
