package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoBaseURL = errors.New("api base url is required")
	ErrDecode    = errors.New("decode response body")
)

// Error is every failure the client returns. Network is set when no response
// arrived; otherwise Status and the parsed backend body are populated.
type Error struct {
	Method         string
	Path           string
	Status         int
	Message        string
	ApprovalStatus string
	Body           json.RawMessage
	Network        bool
	Err            error
}

func (e *Error) Error() string {
	if e.Network {
		return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is a transport failure with no response.
func IsNetwork(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Network
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the backend-supplied message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type errorBody struct {
	Message        string `json:"message"`
	Error          string `json:"error"`
	ApprovalStatus string `json:"approvalStatus"`
}

func newHTTPError(method, path string, status int, body []byte) *Error {
	apiErr := &Error{Method: method, Path: path, Status: status}
	if len(body) > 0 && json.Valid(body) {
		apiErr.Body = json.RawMessage(body)
		var parsed errorBody
		if err := json.Unmarshal(body, &parsed); err == nil {
			apiErr.Message = parsed.Message
			if apiErr.Message == "" {
				apiErr.Message = parsed.Error
			}
			apiErr.ApprovalStatus = parsed.ApprovalStatus
		}
	}
	if apiErr.Message == "" && status >= http.StatusInternalServerError {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
