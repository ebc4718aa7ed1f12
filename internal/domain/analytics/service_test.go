package analytics

import (
	"context"
	"net/http"
	"testing"

	"hrconsole/internal/domain/domaintest"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/fakeapi"
)

func TestFetchDerivesSummaries(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.AdminEmail)
	dept := env.Fake.Seed(fakeapi.CollDepartments, fakeapi.Doc{"name": "Engineering"})
	env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "A", "status": "Active", "department": dept["_id"], "joiningDate": "2025-01-10"})
	env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "B", "status": "Inactive", "department": dept["_id"]})
	env.Fake.Seed(fakeapi.CollLeaves, fakeapi.Doc{"employee": "x", "status": "Pending"})
	svc := New(env.Deps)

	d, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if d.EmployeeMetrics != (EmployeeMetrics{Total: 2, Active: 1, Inactive: 1}) {
		t.Fatalf("unexpected employee metrics %+v", d.EmployeeMetrics)
	}
	if len(d.DepartmentDistribution) != 1 || d.DepartmentDistribution[0] != (DepartmentShare{Department: "Engineering", Count: 2}) {
		t.Fatalf("unexpected distribution %+v", d.DepartmentDistribution)
	}
	if d.LeaveRequestsCount != 1 {
		t.Fatalf("expected 1 pending leave, got %d", d.LeaveRequestsCount)
	}
	if len(d.HiringTrends) != 1 || d.HiringTrends[0]["month"] != "2025-01" {
		t.Fatalf("unexpected hiring trends %+v", d.HiringTrends)
	}
	if st := svc.State(); st.Loading || st.Error != "" || st.Data.Metrics.TotalDepartments != 1 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestFetchFailurePrefersBackendMessage(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.HREmail)
	svc := New(env.Deps)

	env.Fake.Fail(http.MethodGet, "/dashboard/analytics", http.StatusInternalServerError, fakeapi.Doc{"message": "aggregation timed out"})
	if _, err := svc.Fetch(context.Background()); err == nil || err.Error() != "aggregation timed out" {
		t.Fatalf("expected backend message, got %v", err)
	}
	if got := svc.State().Error; got != "aggregation timed out" {
		t.Fatalf("expected state error, got %q", got)
	}

	env.Fake.Fail(http.MethodGet, "/dashboard/analytics", http.StatusInternalServerError, fakeapi.Doc{})
	if _, err := svc.Fetch(context.Background()); err == nil || err.Error() != msgFetch {
		t.Fatalf("expected fallback message, got %v", err)
	}
}

func TestEmployeeNotPermitted(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.EmployeeEmail)
	svc := New(env.Deps)
	if _, err := svc.Fetch(context.Background()); result.CodeOf(err) != result.CodeNotPermitted {
		t.Fatalf("expected not_permitted, got %v", err)
	}
	if n := env.Fake.Count(http.MethodGet, "/dashboard/analytics"); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestClearResetsToEmpty(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.AdminEmail)
	env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "A"})
	svc := New(env.Deps)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	svc.Clear()
	d := svc.State().Data
	if d.EmployeeMetrics.Total != 0 || d.DepartmentDistribution == nil || len(d.DepartmentDistribution) != 0 {
		t.Fatalf("expected empty dashboard, got %+v", d)
	}
}
