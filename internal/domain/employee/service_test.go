package employee

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"hrconsole/internal/domain/domaintest"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/fakeapi"
)

func seedEmployees(env *domaintest.Env, n int) {
	for i := 0; i < n; i++ {
		env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{
			"name":   fmt.Sprintf("Employee %02d", i),
			"email":  fmt.Sprintf("e%02d@example.com", i),
			"status": "Active",
		})
	}
}

func TestQueryValuesDefaults(t *testing.T) {
	v := Query{Search: "ali"}.Values()
	if v.Get("page") != "1" || v.Get("limit") != "10" || v.Get("search") != "ali" {
		t.Fatalf("unexpected values %v", v)
	}
	if v.Has("department") {
		t.Fatalf("empty filters must be omitted: %v", v)
	}
}

func TestFetchPageReplacesPage(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	env.Login(t, domaintest.HREmail)
	seedEmployees(env, 15)
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	if _, err := svc.FetchPage(ctx, Query{Page: 1}); err != nil {
		t.Fatalf("page 1: %v", err)
	}
	st := svc.State()
	if len(st.Items) != 10 || st.TotalPages != 2 {
		t.Fatalf("expected 10 items over 2 pages, got %d/%d", len(st.Items), st.TotalPages)
	}

	if _, err := svc.FetchPage(ctx, Query{Page: 2}); err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if got := len(svc.Items()); got != 5 {
		t.Fatalf("expected page 2 to replace page 1 with 5 items, got %d", got)
	}
	if svc.Query().Page != 2 {
		t.Fatalf("expected remembered page 2, got %+v", svc.Query())
	}
}

func TestSearchDebounced(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.AdminEmail)
	env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "Alice", "email": "alice@example.com"})
	env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "Bob", "email": "bob@example.com"})
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	for _, term := range []string{"a", "al", "ali"} {
		svc.Search(Query{Search: term})
		time.Sleep(100 * time.Millisecond)
	}
	domaintest.Eventually(t, func() bool {
		return env.Fake.Count(http.MethodGet, "/employees") == 1 && !svc.State().Loading
	})

	reqs := env.Fake.Requests()
	last := reqs[len(reqs)-1]
	if last.Query.Get("search") != "ali" {
		t.Fatalf("expected search=ali, got %v", last.Query)
	}
	items := svc.Items()
	if len(items) != 1 || items[0].Name != "Alice" {
		t.Fatalf("expected only Alice, got %+v", items)
	}

	time.Sleep(2 * resource.DefaultDebounce)
	if n := env.Fake.Count(http.MethodGet, "/employees"); n != 1 {
		t.Fatalf("expected exactly one search request, got %d", n)
	}
}

func TestCreateUnwrapsEmployeeKey(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.HREmail)
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	emp, err := svc.Create(context.Background(), Input{Name: "Carol", Email: "carol@example.com", Status: "Active"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.ID == "" || emp.Name != "Carol" {
		t.Fatalf("expected canonical record, got %+v", emp)
	}
	if items := svc.Items(); len(items) != 1 || items[0].ID != emp.ID {
		t.Fatalf("expected record appended once, got %+v", items)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.HREmail)
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	cases := []Input{
		{Email: "x@example.com"},
		{Name: "X", Email: "not-an-email"},
		{Name: "X", Email: "x@example.com", Status: "Retired"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); result.CodeOf(err) != result.CodeValidation {
			t.Fatalf("%+v: expected validation failure, got %v", in, err)
		}
	}
}

func TestHRCannotDelete(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.HREmail)
	doc := env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "Dan"})
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	err := svc.Remove(context.Background(), doc["_id"].(string))
	if result.CodeOf(err) != result.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if n := env.Fake.Count(http.MethodDelete, "/employees/{id}"); n != 0 {
		t.Fatalf("expected no delete request, got %d", n)
	}
}

func TestMyProfile(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	env.Fake.Seed(fakeapi.CollEmployees, fakeapi.Doc{"name": "Eve", "email": domaintest.EmployeeEmail, "user": env.EmployeeID})
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	if _, err := svc.MyProfile(ctx); result.CodeOf(err) != result.CodeUnauthorized {
		t.Fatalf("expected unauthorized while anonymous, got %v", err)
	}

	env.Login(t, domaintest.EmployeeEmail)
	me, err := svc.MyProfile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if me.Name != "Eve" {
		t.Fatalf("expected Eve, got %+v", me)
	}

	updated, err := svc.UpdateMyProfile(ctx, ProfileInput{Phone: "555-0100"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Phone != "555-0100" || updated.ID != me.ID {
		t.Fatalf("expected updated phone, got %+v", updated)
	}
}

func TestMyProfileMissing(t *testing.T) {
	env := domaintest.New(t)
	env.Login(t, domaintest.EmployeeEmail)
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	_, err := svc.MyProfile(context.Background())
	if result.CodeOf(err) != result.CodeNotFound || err.Error() != "Employee profile not found" {
		t.Fatalf("expected backend not_found message, got %v", err)
	}
}

func TestFilterResetOnAccountSwitch(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	seedEmployees(env, 3)
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	env.Login(t, domaintest.HREmail)
	if _, err := svc.FetchPage(ctx, Query{Search: "employee 01", Page: 1}); err != nil {
		t.Fatalf("search: %v", err)
	}
	svc.Search(Query{Search: "pending"})

	env.Logout(t)
	svc.Clear()
	if svc.Query() != (Query{}) {
		t.Fatalf("expected cleared query, got %+v", svc.Query())
	}

	env.Login(t, domaintest.AdminEmail)
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	reqs := env.Fake.Requests()
	last := reqs[len(reqs)-1]
	if last.Query.Has("search") || last.Query.Get("page") != "1" {
		t.Fatalf("expected unfiltered first page, got %v", last.Query)
	}
	if len(svc.Items()) != 3 {
		t.Fatalf("expected all employees, got %d", len(svc.Items()))
	}

	time.Sleep(2 * resource.DefaultDebounce)
	for _, r := range env.Fake.Requests() {
		if r.Query.Get("search") == "pending" {
			t.Fatalf("search scheduled before sign-out still ran")
		}
	}
}

func TestRefreshDropsFilterOfPreviousIdentity(t *testing.T) {
	ctx := context.Background()
	env := domaintest.New(t)
	seedEmployees(env, 3)
	svc := New(env.Deps, resource.DefaultDebounce)
	t.Cleanup(svc.Close)

	env.Login(t, domaintest.HREmail)
	if _, err := svc.FetchPage(ctx, Query{Search: "employee 01"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	env.Login(t, domaintest.AdminEmail)
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	reqs := env.Fake.Requests()
	if q := reqs[len(reqs)-1].Query; q.Has("search") {
		t.Fatalf("expected no search filter after switch, got %v", q)
	}
}
