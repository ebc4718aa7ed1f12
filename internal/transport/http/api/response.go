package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hrconsole/internal/domain/result"
	"hrconsole/internal/platform/logger"
)

type Error struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	ApprovalStatus string `json:"approvalStatus,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("write json failed")
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// FailErr renders a store or session failure with the status its code maps to.
// Errors that are not failures become a generic 500.
func FailErr(w http.ResponseWriter, err error, requestID string) {
	var f *result.Failure
	if !errors.As(err, &f) {
		log := logger.Get()
		log.Error().Err(err).Str("requestId", requestID).Msg("unexpected handler error")
		Fail(w, http.StatusInternalServerError, "internal", "internal error", requestID)
		return
	}
	WriteJSON(w, result.HTTPStatus(f), Envelope{
		Success:   false,
		Error:     &Error{Code: string(f.Code), Message: f.Message, ApprovalStatus: f.ApprovalStatus},
		RequestID: requestID,
	})
}
