package fakeapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const dayLayout = "2006-01-02"

func (s *Server) now() time.Time {
	return time.Now().UTC()
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	employeeID := str(decode(r)["employeeId"])
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Employee ID is required"})
		return
	}
	now := s.now()
	today := now.Format(dayLayout)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.filter(CollAttendance, func(d Doc) bool {
		return str(d["employee"]) == employeeID && str(d["date"]) == today
	}); len(existing) > 0 {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Already checked in today"})
		return
	}
	doc := s.insert(CollAttendance, Doc{
		"employee": employeeID,
		"date":     today,
		"checkIn":  now.Format(time.RFC3339),
		"status":   "Present",
	})
	writeJSON(w, http.StatusCreated, Doc{"message": "Checked in successfully", "attendance": doc})
}

func (s *Server) checkOut(w http.ResponseWriter, r *http.Request) {
	employeeID := str(decode(r)["employeeId"])
	now := s.now()
	today := now.Format(dayLayout)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.colls[CollAttendance] {
		if str(d["employee"]) != employeeID || str(d["date"]) != today {
			continue
		}
		if str(d["checkOut"]) != "" {
			writeJSON(w, http.StatusBadRequest, Doc{"message": "Already checked out today"})
			return
		}
		d["checkOut"] = now.Format(time.RFC3339)
		writeJSON(w, http.StatusOK, Doc{"message": "Checked out successfully", "attendance": clone(d)})
		return
	}
	writeJSON(w, http.StatusBadRequest, Doc{"message": "No check-in found for today"})
}

func (s *Server) personalAttendance(w http.ResponseWriter, r *http.Request) {
	s.writeAttendance(w, r, chi.URLParam(r, "employeeId"))
}

func (s *Server) allAttendance(w http.ResponseWriter, r *http.Request) {
	s.writeAttendance(w, r, "")
}

// writeAttendance filters by employee (when set) and ?month&year.
func (s *Server) writeAttendance(w http.ResponseWriter, r *http.Request, employeeID string) {
	month, year := r.URL.Query().Get("month"), r.URL.Query().Get("year")
	s.mu.Lock()
	out := s.filter(CollAttendance, func(d Doc) bool {
		if employeeID != "" && str(d["employee"]) != employeeID {
			return false
		}
		day, err := time.Parse(dayLayout, str(d["date"]))
		if err != nil {
			return month == "" && year == ""
		}
		if month != "" && str(float64(day.Month())) != month {
			return false
		}
		return year == "" || str(float64(day.Year())) == year
	})
	if employeeID == "" {
		out = s.populate(out)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) applyLeave(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	employeeID := str(body["employeeId"])
	typeID := str(body["leaveTypeId"])
	if employeeID == "" || typeID == "" || str(body["startDate"]) == "" || str(body["endDate"]) == "" {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Leave type and dates are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, leaveType := s.find(CollLeaveTypes, typeID)
	if leaveType == nil {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Invalid leave type"})
		return
	}
	doc := s.insert(CollLeaves, Doc{
		"employee":  employeeID,
		"leaveType": clone(leaveType),
		"startDate": body["startDate"],
		"endDate":   body["endDate"],
		"reason":    body["reason"],
		"status":    "Pending",
	})
	writeJSON(w, http.StatusCreated, Doc{"message": "Leave applied successfully", "leaveRequest": doc})
}

func (s *Server) personalLeaves(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	s.mu.Lock()
	out := s.filter(CollLeaves, func(d Doc) bool { return str(d["employee"]) == employeeID })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) leaveStatus(w http.ResponseWriter, r *http.Request) {
	status := str(decode(r)["status"])
	if status != "Approved" && status != "Rejected" && status != "Pending" {
		writeJSON(w, http.StatusBadRequest, Doc{"message": "Invalid status"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, doc := s.find(CollLeaves, chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, Doc{"message": "Leave request not found"})
		return
	}
	doc["status"] = status
	writeJSON(w, http.StatusOK, Doc{"message": "Leave " + status, "request": s.populate([]Doc{clone(doc)})[0]})
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, active := 0, 0
	perDept := map[string]int{}
	hires := map[string]int{}
	for _, e := range s.colls[CollEmployees] {
		total++
		if str(e["status"]) == "" || str(e["status"]) == "Active" {
			active++
		}
		if dept := str(e["department"]); dept != "" {
			perDept[dept]++
		}
		if joined, err := time.Parse(dayLayout, str(e["joiningDate"])); err == nil {
			hires[joined.Format("2006-01")]++
		}
	}
	pending := len(s.filter(CollLeaves, func(d Doc) bool { return str(d["status"]) == "Pending" }))

	deptStats := []Doc{}
	for _, d := range s.colls[CollDepartments] {
		deptStats = append(deptStats, Doc{"name": d["name"], "count": perDept[str(d["_id"])]})
	}
	trends := []Doc{}
	for month, count := range hires {
		trends = append(trends, Doc{"month": month, "count": count})
	}
	sortDocs(trends, "month")

	today := s.now().Format(dayLayout)
	present := len(s.filter(CollAttendance, func(d Doc) bool { return str(d["date"]) == today }))
	absent := active - present
	if absent < 0 {
		absent = 0
	}
	attendance := []Doc{
		{"status": "Present", "count": present},
		{"status": "Absent", "count": absent},
	}

	byPeriod := map[string]float64{}
	for _, p := range s.colls[CollPayrolls] {
		byPeriod[str(p["year"])+"-"+str(p["month"])] += num(p["netSalary"])
	}
	history := []Doc{}
	for period, amount := range byPeriod {
		history = append(history, Doc{"period": period, "total": amount})
	}
	sortDocs(history, "period")

	writeJSON(w, http.StatusOK, Doc{
		"metrics": Doc{
			"totalEmployees":    total,
			"activeEmployees":   active,
			"inactiveEmployees": total - active,
			"pendingLeaves":     pending,
			"totalDepartments":  len(s.colls[CollDepartments]),
		},
		"departmentStats":   deptStats,
		"hiringTrends":      trends,
		"attendanceSummary": attendance,
		"payrollHistory":    history,
	})
}
