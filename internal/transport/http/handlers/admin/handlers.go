package adminhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/analytics"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/users"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Analytics *analytics.Service
	Users     *users.Service
}

func NewHandler(dashboard *analytics.Service, pending *users.Service) *Handler {
	return &Handler{Analytics: dashboard, Users: pending}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics", h.handleAnalytics)
	r.Route("/pending-users", func(r chi.Router) {
		r.Get("/", h.handlePending)
		r.Post("/{id}/approve", h.handleApprove)
		r.Post("/{id}/reject", h.handleReject)
	})
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Analytics.Fetch(r.Context()); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Analytics.State(), reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Users.FetchPending(r.Context()); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Users.State(), reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	msg, err := h.Users.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"message": msg, "pending": h.Users.State()}, reqID)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in rejectRequest
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	msg, err := h.Users.Reject(r.Context(), chi.URLParam(r, "id"), in.Reason)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"message": msg, "pending": h.Users.State()}, reqID)
}
