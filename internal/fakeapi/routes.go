package fakeapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	CollDepartments  = "departments"
	CollDesignations = "designations"
	CollEmployees    = "employees"
	CollSalaries     = "salaries"
	CollPayrolls     = "payrolls"
	CollAttendance   = "attendance"
	CollLeaves       = "leaves"
	CollLeaveTypes   = "leaveTypes"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	s.handle(r, http.MethodPost, "/auth/login", public, s.login)
	s.handle(r, http.MethodPost, "/auth/signup", public, s.signup)
	s.handle(r, http.MethodPost, "/auth/register", public, s.register)
	s.handle(r, http.MethodPost, "/auth/change-password", anyUser, s.changePassword)

	s.handle(r, http.MethodGet, "/departments", staffOnly, s.list(CollDepartments))
	s.handle(r, http.MethodPost, "/departments", staffOnly, s.create(CollDepartments, ""))
	s.handle(r, http.MethodPut, "/departments/{id}", staffOnly, s.update(CollDepartments, ""))
	s.handle(r, http.MethodDelete, "/departments/{id}", adminOnly, s.remove(CollDepartments))
	s.handle(r, http.MethodPost, "/departments/{id}/assign-employees", staffOnly, s.assignEmployees)

	s.handle(r, http.MethodGet, "/designations", staffOnly, s.list(CollDesignations))
	s.handle(r, http.MethodPost, "/designations", staffOnly, s.create(CollDesignations, ""))
	s.handle(r, http.MethodPut, "/designations/{id}", staffOnly, s.update(CollDesignations, ""))
	s.handle(r, http.MethodDelete, "/designations/{id}", adminOnly, s.remove(CollDesignations))
	s.handle(r, http.MethodPost, "/designations/{id}/assign-employee", staffOnly, s.assignEmployee)

	s.handle(r, http.MethodGet, "/employees", staffOnly, s.listEmployees)
	s.handle(r, http.MethodPost, "/employees", staffOnly, s.create(CollEmployees, "employee"))
	s.handle(r, http.MethodGet, "/employees/profile/me", anyUser, s.myProfile)
	s.handle(r, http.MethodPut, "/employees/profile/me", anyUser, s.updateMyProfile)
	s.handle(r, http.MethodPut, "/employees/{id}", staffOnly, s.update(CollEmployees, "employee"))
	s.handle(r, http.MethodDelete, "/employees/{id}", adminOnly, s.remove(CollEmployees))

	s.handle(r, http.MethodGet, "/salaries", staffOnly, s.listPopulated(CollSalaries))
	s.handle(r, http.MethodGet, "/salaries/employee/{id}", staffOnly, s.salaryFor)
	s.handle(r, http.MethodGet, "/salaries/my-salary", anyUser, s.mySalary)
	s.handle(r, http.MethodPost, "/salaries", staffOnly, s.createSalary)
	s.handle(r, http.MethodPut, "/salaries/{id}", staffOnly, s.updateSalary)

	s.handle(r, http.MethodGet, "/payrolls", staffOnly, s.listPayrolls)
	s.handle(r, http.MethodPost, "/payrolls/generate", staffOnly, s.generatePayroll)
	s.handle(r, http.MethodPut, "/payrolls/{id}", staffOnly, s.update(CollPayrolls, "payroll"))
	s.handle(r, http.MethodGet, "/payrolls/employee/{id}", staffOnly, s.payrollsFor)
	s.handle(r, http.MethodGet, "/payrolls/my-history", anyUser, s.myPayrolls)

	s.handle(r, http.MethodPost, "/attendance/check-in", anyUser, s.checkIn)
	s.handle(r, http.MethodPost, "/attendance/check-out", anyUser, s.checkOut)
	s.handle(r, http.MethodGet, "/attendance/personal/{employeeId}", anyUser, s.personalAttendance)
	s.handle(r, http.MethodGet, "/attendance/all", staffOnly, s.allAttendance)

	s.handle(r, http.MethodGet, "/leaves/types", anyUser, s.list(CollLeaveTypes))
	s.handle(r, http.MethodPost, "/leaves/apply", anyUser, s.applyLeave)
	s.handle(r, http.MethodGet, "/leaves/personal/{employeeId}", anyUser, s.personalLeaves)
	s.handle(r, http.MethodGet, "/leaves/all", staffOnly, s.listPopulated(CollLeaves))
	s.handle(r, http.MethodPut, "/leaves/{id}/status", staffOnly, s.leaveStatus)

	s.handle(r, http.MethodGet, "/users/pending", staffOnly, s.pendingUsers)
	s.handle(r, http.MethodPut, "/users/{id}/approve", staffOnly, s.approveUser)
	s.handle(r, http.MethodPut, "/users/{id}/reject", staffOnly, s.rejectUser)

	s.handle(r, http.MethodGet, "/dashboard/analytics", staffOnly, s.analytics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Route not found"})
	})
	return r
}
