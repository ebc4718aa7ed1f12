package orghandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/department"
	"hrconsole/internal/domain/designation"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Departments  *department.Service
	Designations *designation.Service
}

func NewHandler(departments *department.Service, designations *designation.Service) *Handler {
	return &Handler{Departments: departments, Designations: designations}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.Post("/", h.handleCreateDepartment)
		r.Put("/{id}", h.handleUpdateDepartment)
		r.Delete("/{id}", h.handleDeleteDepartment)
		r.Post("/{id}/assign", h.handleAssignEmployees)
	})
	r.Route("/designations", func(r chi.Router) {
		r.Get("/", h.handleListDesignations)
		r.Post("/", h.handleCreateDesignation)
		r.Put("/{id}", h.handleUpdateDesignation)
		r.Delete("/{id}", h.handleDeleteDesignation)
		r.Post("/{id}/assign", h.handleAssignEmployee)
	})
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Departments.Fetch(r.Context(), nil); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Departments.State(), reqID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in department.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	dept, err := h.Departments.Create(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, dept, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in department.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	dept, err := h.Departments.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, dept, reqID)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Departments.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Departments.State(), reqID)
}

type assignEmployeesRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
}

func (h *Handler) handleAssignEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in assignEmployeesRequest
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Departments.AssignEmployees(r.Context(), id, in.EmployeeIDs); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	dept, _ := h.Departments.Get(id)
	api.Success(w, dept, reqID)
}

func (h *Handler) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Designations.Fetch(r.Context(), nil); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Designations.State(), reqID)
}

func (h *Handler) handleCreateDesignation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in designation.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	des, err := h.Designations.Create(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, des, reqID)
}

func (h *Handler) handleUpdateDesignation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in designation.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	des, err := h.Designations.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, des, reqID)
}

func (h *Handler) handleDeleteDesignation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Designations.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Designations.State(), reqID)
}

type assignEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) handleAssignEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in assignEmployeeRequest
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if err := h.Designations.AssignEmployee(r.Context(), chi.URLParam(r, "id"), in.EmployeeID); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"message": "Employee assigned successfully"}, reqID)
}
