package sessionhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/analytics"
	"hrconsole/internal/domain/guard"
	"hrconsole/internal/domain/result"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Session   *session.Store
	Analytics *analytics.Service
	Jobs      JobRunner
	// Throttle, when set, wraps the credential posts.
	Throttle func(http.Handler) http.Handler
}

// JobRunner runs work with recorded outcomes and reports them.
type JobRunner interface {
	RunNow(ctx context.Context, jobType string, run func(context.Context) error) error
	Runs() map[string]jobs.Run
	Pending() int
}

const jobDashboard = "analytics.dashboard"

func NewHandler(sess *session.Store, dashboard *analytics.Service, runner JobRunner) *Handler {
	return &Handler{Session: sess, Analytics: dashboard, Jobs: runner}
}

// RegisterRoutes mounts the guarded session pages. Logout is mounted
// separately because it must work from any state.
func (h *Handler) RegisterRoutes(r chi.Router) {
	creds := r
	if h.Throttle != nil {
		creds = r.With(h.Throttle)
	}
	creds.Post(guard.LoginPath, h.handleLogin)
	creds.Post("/signup", h.handleSignup)
	r.Get(guard.PendingPath, h.handlePending)
	r.Get(guard.DefaultPath, h.handleDashboard)
	r.Get("/settings", h.handleSettings)
	r.Post("/settings/password", h.handleChangePassword)
	r.Post("/register", h.handleRegister)
}

type loginView struct {
	Identity any    `json:"identity"`
	Redirect string `json:"redirect"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in session.LoginInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	identity, err := h.Session.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if result.CodeOf(err) == result.CodePendingApproval {
			w.Header().Set("Location", guard.PendingPath)
		}
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, loginView{Identity: identity, Redirect: guard.DefaultPath}, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Session.Logout(r.Context()); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"redirect": guard.LoginPath}, reqID)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in session.SignupInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	msg, err := h.Session.Signup(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]string{"message": msg, "redirect": guard.PendingPath}, reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{
		"message": "Your account is awaiting administrator approval",
	}, middleware.GetRequestID(r.Context()))
}

type dashboardView struct {
	Session   session.Snapshot `json:"session"`
	Analytics *analytics.State `json:"analytics,omitempty"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.Session.Snapshot()
	view := dashboardView{Session: snap}
	if snap.Identity.IsStaff() {
		// A failed refresh still renders; its message sits in the analytics state.
		_ = h.Jobs.RunNow(r.Context(), jobDashboard, h.Analytics.Refresh)
		st := h.Analytics.State()
		view.Analytics = &st
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

type settingsView struct {
	Session        session.Snapshot    `json:"session"`
	TokenExpiresAt *time.Time          `json:"tokenExpiresAt,omitempty"`
	Jobs           map[string]jobs.Run `json:"jobs"`
	PendingJobs    int                 `json:"pendingJobs"`
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	view := settingsView{
		Session:     h.Session.Snapshot(),
		Jobs:        h.Jobs.Runs(),
		PendingJobs: h.Jobs.Pending(),
	}
	if exp, ok := h.Session.TokenExpiry(); ok {
		view.TokenExpiresAt = &exp
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in session.PasswordChange
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	msg, err := h.Session.ChangePassword(r.Context(), in.OldPassword, in.NewPassword)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"message": msg}, reqID)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var in session.RegisterInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	msg, err := h.Session.Register(r.Context(), in)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, map[string]string{"message": msg}, reqID)
}
