// Package domaintest wires a session and API client against the fake backend
// for the resource service tests.
package domaintest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/fakeapi"
	"hrconsole/internal/platform/apiclient"
	"hrconsole/internal/platform/storage"
)

const (
	Password      = "secret1"
	AdminEmail    = "admin@example.com"
	HREmail       = "hr@example.com"
	EmployeeEmail = "emp@example.com"
)

type Env struct {
	Fake    *fakeapi.Server
	Client  *apiclient.Client
	Session *session.Store
	Deps    resource.Deps

	// User ids of the seeded accounts.
	AdminID    string
	HRID       string
	EmployeeID string
}

// New starts a fake backend with one approved account per role and a
// resolved, anonymous session.
func New(t *testing.T) *Env {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	mem := storage.NewMemory()
	client, err := apiclient.New(srv.URL, session.TokenSource(mem))
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	sess, err := session.New(mem, client, zerolog.Nop())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := sess.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return &Env{
		Fake:       fake,
		Client:     client,
		Session:    sess,
		Deps:       resource.Deps{API: client, Session: sess, Log: zerolog.Nop()},
		AdminID:    fake.AddUser("Ada", AdminEmail, Password, auth.RoleAdmin, ""),
		HRID:       fake.AddUser("Hana", HREmail, Password, auth.RoleHR, ""),
		EmployeeID: fake.AddUser("Eve", EmployeeEmail, Password, auth.RoleEmployee, ""),
	}
}

func (e *Env) Login(t *testing.T, email string) auth.Identity {
	t.Helper()
	id, err := e.Session.Login(context.Background(), email, Password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return id
}

func (e *Env) Logout(t *testing.T) {
	t.Helper()
	if err := e.Session.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

// Eventually polls cond for up to three seconds.
func Eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
