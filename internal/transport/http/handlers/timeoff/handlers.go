package timeoffhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/attendance"
	"hrconsole/internal/domain/leave"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Attendance *attendance.Service
	Leave      *leave.Service
}

func NewHandler(att *attendance.Service, lv *leave.Service) *Handler {
	return &Handler{Attendance: att, Leave: lv}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.handleMyAttendance)
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
	})
	r.Get("/attendance-report", h.handleReport)

	r.Route("/leaves", func(r chi.Router) {
		r.Get("/", h.handleMyLeaves)
		r.Post("/", h.handleApply)
	})
	r.Route("/leave-management", func(r chi.Router) {
		r.Get("/", h.handleAllLeaves)
		r.Put("/{id}", h.handleLeaveStatus)
	})
}

func filterFrom(r *http.Request) (attendance.Filter, error) {
	month, year, err := shared.MonthYear(r)
	return attendance.Filter{Month: month, Year: year}, err
}

func (h *Handler) handleMyAttendance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	f, err := filterFrom(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if _, err := h.Attendance.FetchMine(r.Context(), f); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Attendance.History.State(), reqID)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	rec, err := h.Attendance.CheckIn(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, rec, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	rec, err := h.Attendance.CheckOut(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, rec, reqID)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	f, err := filterFrom(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if _, err := h.Attendance.FetchAll(r.Context(), f); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Attendance.Report.State(), reqID)
}

type leavesView struct {
	Types    resource.State[leave.Type]    `json:"types"`
	Requests resource.State[leave.Request] `json:"requests"`
}

// handleMyLeaves loads the leave types alongside the caller's own requests,
// as the apply form needs both.
func (h *Handler) handleMyLeaves(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Leave.FetchTypes(r.Context()); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	if _, err := h.Leave.FetchMine(r.Context()); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, leavesView{Types: h.Leave.Types.State(), Requests: h.Leave.Mine.State()}, reqID)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in leave.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	req, err := h.Leave.Apply(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, req, reqID)
}

func (h *Handler) handleAllLeaves(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Leave.FetchAll(r.Context()); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Leave.All.State(), reqID)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleLeaveStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in statusRequest
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	req, err := h.Leave.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, req, reqID)
}
