package guard

import (
	"testing"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/session"
)

func authed(role auth.Role) session.Snapshot {
	return session.Snapshot{State: session.Authenticated, Identity: auth.Identity{ID: "u1", Role: role}}
}

func TestDecide(t *testing.T) {
	staffOnly := []auth.Role{auth.RoleAdmin, auth.RoleHR}
	cases := []struct {
		name    string
		snap    session.Snapshot
		allowed []auth.Role
		want    Decision
	}{
		{name: "unresolved waits", snap: session.Snapshot{}, allowed: staffOnly, want: Loading},
		{name: "unresolved without list waits", snap: session.Snapshot{}, want: Loading},
		{name: "anonymous to login", snap: session.Snapshot{State: session.Anonymous}, allowed: staffOnly, want: RedirectLogin},
		{name: "allowed role renders", snap: authed(auth.RoleHR), allowed: staffOnly, want: Render},
		{name: "no allow-list renders", snap: authed(auth.RoleEmployee), want: Render},
		{name: "empty role with no list renders", snap: authed(""), want: Render},
		{name: "empty role with list redirects", snap: authed(""), allowed: staffOnly, want: RedirectDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.snap, tc.allowed...); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRoleMismatchNeverRedirectsToLogin(t *testing.T) {
	for _, allowed := range [][]auth.Role{
		{auth.RoleAdmin},
		{auth.RoleHR},
		{auth.RoleEmployee},
		{auth.RoleAdmin, auth.RoleHR},
	} {
		for _, role := range append([]auth.Role{""}, auth.Roles...) {
			snap := authed(role)
			got := Decide(snap, allowed...)
			if role.In(allowed...) {
				if got != Render {
					t.Fatalf("role %q allowed by %v should render, got %s", role, allowed, got)
				}
				continue
			}
			if got != RedirectDefault {
				t.Fatalf("role %q not in %v should go to default, got %s", role, allowed, got)
			}
			if got.Target() != DefaultPath {
				t.Fatalf("unexpected target %q", got.Target())
			}
		}
	}
}

func TestObjectRoleMatchesAllowList(t *testing.T) {
	var fromObject auth.Role
	if err := fromObject.UnmarshalJSON([]byte(`{"name":"HR"}`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if Decide(authed(fromObject), auth.RoleHR) != Render {
		t.Fatal("object role should pass an HR allow-list")
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		path   string
		want   string
		found  bool
		public bool
	}{
		{path: "/", want: "/", found: true},
		{path: "/login", want: "/login", found: true, public: true},
		{path: "/employees/abc", want: "/employees", found: true},
		{path: "/settings/password/", want: "/settings", found: true},
		{path: "/nowhere", found: false},
		{path: "/nowhere/deeper", found: false},
	}
	for _, tc := range cases {
		r, ok := Lookup(tc.path)
		if ok != tc.found || r.Path != tc.want || r.Public != tc.public {
			t.Fatalf("lookup %s: got %+v %v", tc.path, r, ok)
		}
	}
}

func TestEmployeeOnlyRoutes(t *testing.T) {
	r, _ := Lookup("/employee-salary")
	if Decide(authed(auth.RoleHR), r.Roles...) != RedirectDefault {
		t.Fatal("HR must not reach the employee self-service pages")
	}
	r, _ = Lookup("/attendance")
	if Decide(authed(auth.RoleHR), r.Roles...) != Render || Decide(authed(auth.RoleEmployee), r.Roles...) != Render {
		t.Fatal("attendance is open to every role")
	}
}
