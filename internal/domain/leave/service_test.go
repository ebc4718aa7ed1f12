package leave

import (
	"context"
	"net/http"
	"testing"

	"hrconsole/internal/domain/domaintest"
	"hrconsole/internal/domain/result"
)

func TestApplyPrependsToMine(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	me := env.Login(t, domaintest.EmployeeEmail)
	svc := New(env.Deps)

	types, err := svc.FetchTypes(ctx)
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	if len(types) == 0 {
		t.Fatal("expected seeded leave types")
	}

	first, err := svc.Apply(ctx, Input{LeaveTypeID: types[0].ID, StartDate: "2025-05-01", EndDate: "2025-05-02", Reason: "trip"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	second, err := svc.Apply(ctx, Input{LeaveTypeID: types[0].ID, StartDate: "2025-06-01", EndDate: "2025-06-01"})
	if err != nil {
		t.Fatalf("apply again: %v", err)
	}
	if first.Status != StatusPending || first.Employee.ID != me.ID {
		t.Fatalf("unexpected request %+v", first)
	}
	mine := svc.Mine.Items()
	if len(mine) != 2 || mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", mine)
	}

	fetched, err := svc.FetchMine(ctx)
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}
	if len(fetched) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(fetched))
	}
}

func TestApplyValidation(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.EmployeeEmail)
	svc := New(env.Deps)

	cases := []struct {
		name string
		in   Input
	}{
		{name: "missing type", in: Input{StartDate: "2025-05-01", EndDate: "2025-05-02"}},
		{name: "bad date", in: Input{LeaveTypeID: "lt-annual", StartDate: "05/01/2025", EndDate: "2025-05-02"}},
		{name: "end before start", in: Input{LeaveTypeID: "lt-annual", StartDate: "2025-05-03", EndDate: "2025-05-02"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Apply(context.Background(), tc.in); result.CodeOf(err) != result.CodeValidation {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
	if n := env.Fake.Count(http.MethodPost, "/leaves/apply"); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestApplyRequiresSession(t *testing.T) {
	env := domaintest.New(t)
	svc := New(env.Deps)
	_, err := svc.Apply(context.Background(), Input{LeaveTypeID: "lt-annual", StartDate: "2025-05-01", EndDate: "2025-05-01"})
	if result.CodeOf(err) != result.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestApproveFlow(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	svc := New(env.Deps)

	env.Login(t, domaintest.EmployeeEmail)
	req, err := svc.Apply(ctx, Input{LeaveTypeID: "lt-sick", StartDate: "2025-07-01", EndDate: "2025-07-02"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := svc.FetchAll(ctx); result.CodeOf(err) != result.CodeNotPermitted {
		t.Fatalf("expected not_permitted for employee, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, req.ID, StatusApproved); result.CodeOf(err) != result.CodeForbidden {
		t.Fatalf("expected forbidden for employee, got %v", err)
	}

	env.Logout(t)
	env.Login(t, domaintest.HREmail)
	all, err := svc.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 1 || all[0].Employee.ID != env.EmployeeID {
		t.Fatalf("unexpected requests %+v", all)
	}

	got, err := svc.UpdateStatus(ctx, req.ID, StatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != StatusApproved || svc.All.Items()[0].Status != StatusApproved {
		t.Fatalf("expected approved in place, got %+v", svc.All.Items())
	}

	if _, err := svc.UpdateStatus(ctx, req.ID, StatusPending); result.CodeOf(err) != result.CodeValidation {
		t.Fatalf("expected validation failure for Pending, got %v", err)
	}
}
