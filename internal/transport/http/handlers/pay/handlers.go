package payhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/payroll"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/salary"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Salaries *salary.Service
	Payrolls *payroll.Service
}

func NewHandler(salaries *salary.Service, payrolls *payroll.Service) *Handler {
	return &Handler{Salaries: salaries, Payrolls: payrolls}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salary", func(r chi.Router) {
		r.Get("/", h.handleListSalaries)
		r.Post("/", h.handleSetSalary)
		r.Get("/employee/{employeeID}", h.handleSalaryFor)
		r.Put("/{id}", h.handleUpdateSalary)
	})
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/", h.handleListPayrolls)
		r.Post("/generate", h.handleGenerate)
		r.Put("/{id}/status", h.handleUpdateStatus)
		r.Get("/employee/{employeeID}", h.handleEmployeeHistory)
	})
	r.Get("/employee-salary", h.handleMySalary)
	r.Get("/employee-payroll", h.handleMyPayrolls)
}

func (h *Handler) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Salaries.Fetch(r.Context(), nil); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Salaries.State(), reqID)
}

func (h *Handler) handleSetSalary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in salary.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	sal, err := h.Salaries.Set(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, sal, reqID)
}

func (h *Handler) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in salary.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	sal, err := h.Salaries.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, sal, reqID)
}

func (h *Handler) handleSalaryFor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sal, err := h.Salaries.ForEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, sal, reqID)
}

func (h *Handler) handleMySalary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sal, err := h.Salaries.Mine(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, sal, reqID)
}

type payrollView struct {
	resource.State[payroll.Payroll]
	Period payroll.Period `json:"period"`
}

func (h *Handler) handleListPayrolls(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	month, year, err := shared.MonthYear(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	period := payroll.Period{Month: month, Year: year}
	if _, err := h.Payrolls.FetchPeriod(r.Context(), period); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, payrollView{State: h.Payrolls.State(), Period: period}, reqID)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var period payroll.Period
	if err := shared.DecodeJSON(r, &period); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	msg, err := h.Payrolls.Generate(r.Context(), period)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]any{
		"message":  msg,
		"payrolls": h.Payrolls.State(),
	}, reqID)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var upd payroll.StatusUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	p, err := h.Payrolls.UpdateStatus(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	items, err := h.Payrolls.EmployeeHistory(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleMyPayrolls(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	items, err := h.Payrolls.MyHistory(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, items, reqID)
}
