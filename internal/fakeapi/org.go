package fakeapi

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) assignEmployees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ids, _ := decode(r)["employeeIds"].([]any)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, dept := s.find(CollDepartments, id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Department not found"})
		return
	}
	members := memberIDs(dept["employees"])
	for _, raw := range ids {
		eid := str(raw)
		if _, emp := s.find(CollEmployees, eid); emp != nil {
			emp["department"] = id
		}
		if eid != "" && !containsID(members, eid) {
			members = append(members, eid)
		}
	}
	stored := make([]any, len(members))
	populated := make([]any, len(members))
	for i, eid := range members {
		stored[i] = eid
		populated[i] = eid
		if _, emp := s.find(CollEmployees, eid); emp != nil {
			populated[i] = Doc{"_id": eid, "name": emp["name"], "email": emp["email"]}
		}
	}
	dept["employees"] = stored
	out := clone(dept)
	out["employees"] = populated
	writeJSON(w, http.StatusOK, Doc{"message": "Employees assigned successfully", "department": out})
}

// memberIDs reads a member list stored as ids or populated objects.
func memberIDs(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, str(m))
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *Server) assignEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	employeeID := str(decode(r)["employeeId"])
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, _ := s.find(CollDesignations, id); i < 0 {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Designation not found"})
		return
	}
	_, emp := s.find(CollEmployees, employeeID)
	if emp == nil {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Employee not found"})
		return
	}
	emp["designation"] = id
	writeJSON(w, http.StatusOK, Doc{"message": "Employee assigned successfully"})
}

// listEmployees pages with ?search&department&designation&status&page&limit.
func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	s.mu.Lock()
	matches := s.filter(CollEmployees, func(d Doc) bool {
		if search != "" && !strings.Contains(strings.ToLower(str(d["name"])), search) &&
			!strings.Contains(strings.ToLower(str(d["email"])), search) {
			return false
		}
		for _, field := range []string{"department", "designation", "status"} {
			if want := q.Get(field); want != "" && str(d[field]) != want {
				return false
			}
		}
		return true
	})
	s.mu.Unlock()

	total := len(matches)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	writeJSON(w, http.StatusOK, Doc{
		"employees":   matches[start:end],
		"totalPages":  totalPages,
		"currentPage": page,
		"total":       total,
	})
}

// employeeFor resolves the employee record linked to a user id. Callers hold s.mu.
func (s *Server) employeeFor(userID string) Doc {
	for _, d := range s.colls[CollEmployees] {
		if str(d["user"]) == userID || str(d["_id"]) == userID {
			return d
		}
	}
	return nil
}

func (s *Server) myProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	emp := s.employeeFor(claimsFrom(r).UserID)
	var out Doc
	if emp != nil {
		out = clone(emp)
	}
	s.mu.Unlock()
	if out == nil {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Employee profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// updateMyProfile lets employees change only their contact details.
func (s *Server) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	s.mu.Lock()
	emp := s.employeeFor(claimsFrom(r).UserID)
	if emp == nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, Doc{"message": "Employee profile not found"})
		return
	}
	for _, field := range []string{"name", "phone", "address"} {
		if v, ok := body[field]; ok {
			emp[field] = v
		}
	}
	out := clone(emp)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, Doc{"message": "Profile updated successfully", "employee": out})
}
