package attendance

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"hrconsole/internal/domain/domaintest"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/fakeapi"
)

func TestCheckInOut(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	me := env.Login(t, domaintest.EmployeeEmail)
	svc := New(env.Deps)

	in, err := svc.CheckIn(ctx)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if in.Employee.ID != me.ID || in.CheckIn == "" || in.CheckedOut() {
		t.Fatalf("unexpected check-in record %+v", in)
	}
	if _, err := svc.CheckIn(ctx); err == nil || err.Error() != "Already checked in today" {
		t.Fatalf("expected duplicate check-in failure, got %v", err)
	}

	out, err := svc.CheckOut(ctx)
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if out.ID != in.ID || !out.CheckedOut() {
		t.Fatalf("unexpected check-out record %+v", out)
	}
	hist := svc.History.Items()
	if len(hist) != 1 || !hist[0].CheckedOut() {
		t.Fatalf("expected today's entry replaced in history, got %+v", hist)
	}
}

func TestCheckInRequiresSession(t *testing.T) {
	env := domaintest.New(t)
	svc := New(env.Deps)
	if _, err := svc.CheckIn(context.Background()); result.CodeOf(err) != result.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if n := env.Fake.Count(http.MethodPost, "/attendance/check-in"); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestFetchMineUsesSessionIdentity(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	me := env.Login(t, domaintest.EmployeeEmail)
	env.Fake.Seed(fakeapi.CollAttendance, fakeapi.Doc{"employee": me.ID, "date": "2025-03-03", "status": "Present"})
	env.Fake.Seed(fakeapi.CollAttendance, fakeapi.Doc{"employee": me.ID, "date": "2025-04-01", "status": "Present"})
	env.Fake.Seed(fakeapi.CollAttendance, fakeapi.Doc{"employee": env.HRID, "date": "2025-03-03"})
	svc := New(env.Deps)

	recs, err := svc.FetchMine(ctx, Filter{Month: 3, Year: 2025})
	if err != nil {
		t.Fatalf("fetch mine: %v", err)
	}
	if len(recs) != 1 || recs[0].Date != "2025-03-03" {
		t.Fatalf("expected March only, got %+v", recs)
	}
	reqs := env.Fake.Requests()
	if got := reqs[len(reqs)-1].Path; got != "/attendance/personal/"+me.ID {
		t.Fatalf("expected personal path for %s, got %s", me.ID, got)
	}

	if _, err := svc.FetchMine(ctx, Filter{Month: 13}); result.CodeOf(err) != result.CodeValidation {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestReportIsStaffOnly(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	now := time.Now().UTC()
	env.Fake.Seed(fakeapi.CollAttendance, fakeapi.Doc{"employee": env.EmployeeID, "date": now.Format("2006-01-02")})
	svc := New(env.Deps)

	env.Login(t, domaintest.EmployeeEmail)
	if _, err := svc.FetchAll(ctx, Filter{}); result.CodeOf(err) != result.CodeNotPermitted {
		t.Fatalf("expected not_permitted, got %v", err)
	}

	env.Logout(t)
	env.Login(t, domaintest.HREmail)
	recs, err := svc.FetchAll(ctx, Filter{Month: int(now.Month()), Year: now.Year()})
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %+v", recs)
	}
	reqs := env.Fake.Requests()
	if got := reqs[len(reqs)-1].Query.Get("year"); got != strconv.Itoa(now.Year()) {
		t.Fatalf("expected year filter, got %q", got)
	}
}

func TestClearEmptiesBothCollections(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	env.Login(t, domaintest.AdminEmail)
	svc := New(env.Deps)
	if _, err := svc.CheckIn(ctx); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := svc.FetchAll(ctx, Filter{}); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	svc.Clear()
	if len(svc.History.Items()) != 0 || len(svc.Report.Items()) != 0 {
		t.Fatal("expected cleared collections")
	}
}
