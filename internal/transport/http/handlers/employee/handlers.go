package employeehandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/employee"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

const maxPageSize = 100

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/search", h.handleSearch)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
	r.Get("/employee-profile", h.handleProfile)
	r.Put("/employee-profile", h.handleUpdateProfile)
}

func queryFrom(r *http.Request) employee.Query {
	page := shared.ParsePagination(r, employee.DefaultLimit, maxPageSize)
	q := r.URL.Query()
	return employee.Query{
		Search:      q.Get("search"),
		Department:  q.Get("department"),
		Designation: q.Get("designation"),
		Status:      q.Get("status"),
		Page:        page.Page,
		Limit:       page.Limit,
	}
}

type listView struct {
	resource.State[employee.Employee]
	Query employee.Query `json:"query"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Service.FetchPage(r.Context(), queryFrom(r)); err != nil && !errors.Is(err, resource.ErrStale) {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, listView{State: h.Service.State(), Query: h.Service.Query()}, reqID)
}

// handleSearch schedules a debounced fetch and answers with the current page.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var q employee.Query
	if err := shared.DecodeJSON(r, &q); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if !h.Service.Allowed() {
		api.FailErr(w, result.NotPermitted(h.Service.Spec().Messages.Fetch), reqID)
		return
	}
	h.Service.Search(q)
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{
		Success:   true,
		Data:      listView{State: h.Service.State(), Query: q},
		RequestID: reqID,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in employee.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emp, err := h.Service.Create(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in employee.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emp, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, h.Service.State(), reqID)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.MyProfile(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in employee.ProfileInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emp, err := h.Service.UpdateMyProfile(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, emp, reqID)
}
