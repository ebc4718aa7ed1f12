package auth

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermEmployeesDelete = "employees.delete"
	PermOrgRead         = "org.read"
	PermOrgWrite        = "org.write"
	PermOrgDelete       = "org.delete"
	PermSalaryRead      = "salary.read"
	PermSalaryWrite     = "salary.write"
	PermPayrollRead     = "payroll.read"
	PermPayrollRun      = "payroll.run"
	PermAttendanceSelf  = "attendance.self"
	PermAttendanceAll   = "attendance.read_all"
	PermLeaveSelf       = "leave.self"
	PermLeaveApprove    = "leave.approve"
	PermUsersRegister   = "users.register"
	PermUsersApprove    = "users.approve"
	PermAnalyticsRead   = "analytics.read"
	PermProfileSelf     = "profile.self"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermEmployeesDelete,
	PermOrgRead,
	PermOrgWrite,
	PermOrgDelete,
	PermSalaryRead,
	PermSalaryWrite,
	PermPayrollRead,
	PermPayrollRun,
	PermAttendanceSelf,
	PermAttendanceAll,
	PermLeaveSelf,
	PermLeaveApprove,
	PermUsersRegister,
	PermUsersApprove,
	PermAnalyticsRead,
	PermProfileSelf,
}

// RolePermissions mirrors what each role can reach in the UI. Deleting
// employees, departments and designations is reserved for ADMIN.
var RolePermissions = map[Role][]string{
	RoleAdmin: DefaultPermissions,
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermSalaryRead,
		PermSalaryWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermAttendanceSelf,
		PermAttendanceAll,
		PermLeaveSelf,
		PermLeaveApprove,
		PermUsersRegister,
		PermUsersApprove,
		PermAnalyticsRead,
		PermProfileSelf,
	},
	RoleEmployee: {
		PermAttendanceSelf,
		PermLeaveSelf,
		PermProfileSelf,
	},
}

func Can(role Role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
