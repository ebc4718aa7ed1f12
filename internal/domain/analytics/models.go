package analytics

type Metrics struct {
	TotalEmployees    int `json:"totalEmployees"`
	ActiveEmployees   int `json:"activeEmployees"`
	InactiveEmployees int `json:"inactiveEmployees"`
	PendingLeaves     int `json:"pendingLeaves"`
	TotalDepartments  int `json:"totalDepartments"`
}

type DepartmentStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Series is chart data passed through as the backend sends it.
type Series []map[string]any

type EmployeeMetrics struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

type DepartmentShare struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type Dashboard struct {
	Metrics           Metrics          `json:"metrics"`
	DepartmentStats   []DepartmentStat `json:"departmentStats"`
	HiringTrends      Series           `json:"hiringTrends"`
	AttendanceSummary Series           `json:"attendanceSummary"`
	PayrollHistory    Series           `json:"payrollHistory"`

	EmployeeMetrics        EmployeeMetrics   `json:"employeeMetrics"`
	DepartmentDistribution []DepartmentShare `json:"departmentDistribution"`
	LeaveRequestsCount     int               `json:"leaveRequestsCount"`
}

// derive fills the summary fields the older dashboard views read and
// replaces absent lists with empty ones.
func (d Dashboard) derive() Dashboard {
	if d.DepartmentStats == nil {
		d.DepartmentStats = []DepartmentStat{}
	}
	if d.HiringTrends == nil {
		d.HiringTrends = Series{}
	}
	if d.AttendanceSummary == nil {
		d.AttendanceSummary = Series{}
	}
	if d.PayrollHistory == nil {
		d.PayrollHistory = Series{}
	}
	d.EmployeeMetrics = EmployeeMetrics{
		Total:    d.Metrics.TotalEmployees,
		Active:   d.Metrics.ActiveEmployees,
		Inactive: d.Metrics.InactiveEmployees,
	}
	d.DepartmentDistribution = make([]DepartmentShare, 0, len(d.DepartmentStats))
	for _, s := range d.DepartmentStats {
		d.DepartmentDistribution = append(d.DepartmentDistribution, DepartmentShare{Department: s.Name, Count: s.Count})
	}
	d.LeaveRequestsCount = d.Metrics.PendingLeaves
	return d
}

// State is the store's render copy.
type State struct {
	Data    Dashboard `json:"data"`
	Loading bool      `json:"loading"`
	Error   string    `json:"error,omitempty"`
}
