package guard

import (
	"strings"

	"hrconsole/internal/domain/auth"
)

// Route is one navigable page of the console.
type Route struct {
	Path   string
	Public bool
	Roles  []auth.Role
}

var (
	staff      = []auth.Role{auth.RoleAdmin, auth.RoleHR}
	everyone   = []auth.Role{auth.RoleAdmin, auth.RoleHR, auth.RoleEmployee}
	selfServed = []auth.Role{auth.RoleEmployee}
)

// Routes is the console's navigation table.
var Routes = []Route{
	{Path: LoginPath, Public: true},
	{Path: "/signup", Public: true},
	{Path: PendingPath, Public: true},
	{Path: DefaultPath},
	{Path: "/settings"},
	{Path: "/employees", Roles: staff},
	{Path: "/departments", Roles: staff},
	{Path: "/designations", Roles: staff},
	{Path: "/salary", Roles: staff},
	{Path: "/payroll", Roles: staff},
	{Path: "/attendance-report", Roles: staff},
	{Path: "/leave-management", Roles: staff},
	{Path: "/register", Roles: staff},
	{Path: "/analytics", Roles: staff},
	{Path: "/pending-users", Roles: staff},
	{Path: "/attendance", Roles: everyone},
	{Path: "/leaves", Roles: everyone},
	{Path: "/employee-profile", Roles: selfServed},
	{Path: "/employee-salary", Roles: selfServed},
	{Path: "/employee-payroll", Roles: selfServed},
}

// Lookup finds the route owning path; sub-paths such as /employees/{id}
// belong to their top-level route.
func Lookup(path string) (Route, bool) {
	path = "/" + strings.Trim(path, "/")
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	if path == "/" {
		return Route{}, false
	}
	top := "/" + strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if top == path {
		return Route{}, false
	}
	return Lookup(top)
}
