package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func salaryDoc(body Doc, into Doc) Doc {
	if into == nil {
		into = Doc{}
	}
	if id := str(body["employeeId"]); id != "" {
		into["employee"] = id
	}
	for _, field := range []string{"basicSalary", "allowances", "deductions"} {
		if v, ok := body[field]; ok {
			into[field] = num(v)
		}
	}
	into["netSalary"] = num(into["basicSalary"]) + num(into["allowances"]) - num(into["deductions"])
	return into
}

func (s *Server) salaryFor(w http.ResponseWriter, r *http.Request) {
	s.writeSalaryOf(w, chi.URLParam(r, "id"))
}

func (s *Server) mySalary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	emp := s.employeeFor(claimsFrom(r).UserID)
	s.mu.Unlock()
	if emp == nil {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Employee profile not found"})
		return
	}
	s.writeSalaryOf(w, str(emp["_id"]))
}

func (s *Server) writeSalaryOf(w http.ResponseWriter, employeeID string) {
	s.mu.Lock()
	found := s.populate(s.filter(CollSalaries, func(d Doc) bool { return str(d["employee"]) == employeeID }))
	s.mu.Unlock()
	if len(found) == 0 {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Salary not found"})
		return
	}
	writeJSON(w, http.StatusOK, found[0])
}

func (s *Server) createSalary(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	employeeID := str(body["employeeId"])
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Employee is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.filter(CollSalaries, func(d Doc) bool { return str(d["employee"]) == employeeID }); len(existing) > 0 {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Salary already set for this employee"})
		return
	}
	doc := s.insert(CollSalaries, salaryDoc(body, nil))
	writeJSON(w, http.StatusCreated, Doc{"message": "Salary set successfully", "salary": s.populate([]Doc{doc})[0]})
}

func (s *Server) updateSalary(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, doc := s.find(CollSalaries, chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Salary not found"})
		return
	}
	salaryDoc(body, doc)
	writeJSON(w, http.StatusOK, Doc{"message": "Salary updated successfully", "salary": s.populate([]Doc{clone(doc)})[0]})
}

func (s *Server) listPayrolls(w http.ResponseWriter, r *http.Request) {
	month, year := r.URL.Query().Get("month"), r.URL.Query().Get("year")
	s.mu.Lock()
	out := s.populate(s.filter(CollPayrolls, func(d Doc) bool {
		return (month == "" || str(d["month"]) == month) && (year == "" || str(d["year"]) == year)
	}))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// generatePayroll creates one Pending payroll per salary for the period,
// skipping employees that already have one.
func (s *Server) generatePayroll(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	month, year := num(body["month"]), num(body["year"])
	if month < 1 || month > 12 || year < 1 {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Valid month and year are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created := 0
	for _, sal := range s.colls[CollSalaries] {
		employeeID := str(sal["employee"])
		exists := s.filter(CollPayrolls, func(d Doc) bool {
			return str(d["employee"]) == employeeID && num(d["month"]) == month && num(d["year"]) == year
		})
		if len(exists) > 0 {
			continue
		}
		s.insert(CollPayrolls, Doc{
			"employee":    employeeID,
			"month":       month,
			"year":        year,
			"basicSalary": sal["basicSalary"],
			"allowances":  sal["allowances"],
			"deductions":  sal["deductions"],
			"netSalary":   sal["netSalary"],
			"status":      "Pending",
		})
		created++
	}
	writeJSON(w, http.StatusCreated, Doc{"message": fmt.Sprintf("Payroll generated for %d employees", created)})
}

func (s *Server) payrollsFor(w http.ResponseWriter, r *http.Request) {
	s.writePayrollsOf(w, chi.URLParam(r, "id"))
}

func (s *Server) myPayrolls(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	emp := s.employeeFor(claimsFrom(r).UserID)
	s.mu.Unlock()
	if emp == nil {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Employee profile not found"})
		return
	}
	s.writePayrollsOf(w, str(emp["_id"]))
}

func (s *Server) writePayrollsOf(w http.ResponseWriter, employeeID string) {
	s.mu.Lock()
	out := s.populate(s.filter(CollPayrolls, func(d Doc) bool { return str(d["employee"]) == employeeID }))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}
