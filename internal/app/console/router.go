package console

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrconsole/internal/domain/guard"
	adminhandler "hrconsole/internal/transport/http/handlers/admin"
	employeehandler "hrconsole/internal/transport/http/handlers/employee"
	orghandler "hrconsole/internal/transport/http/handlers/org"
	payhandler "hrconsole/internal/transport/http/handlers/pay"
	sessionhandler "hrconsole/internal/transport/http/handlers/session"
	timeoffhandler "hrconsole/internal/transport/http/handlers/timeoff"
	"hrconsole/internal/transport/http/middleware"
)

const rateWindow = time.Minute

func (a *App) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Log))
	router.Use(middleware.Recoverer(a.Log))
	router.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if a.Config.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	clientIP := middleware.ClientIP(a.Config.TrustProxy)
	sessionHandler := sessionhandler.NewHandler(a.Session, a.Analytics, a.Jobs)
	if a.Config.LoginAttempts > 0 {
		sessionHandler.Throttle = middleware.CredentialThrottle(a.Config.LoginAttempts, rateWindow, clientIP, a.Log)
	}
	router.Post("/logout", sessionHandler.HandleLogout)

	router.Group(func(r chi.Router) {
		if a.Config.RequestsPerMinute > 0 {
			r.Use(middleware.RateLimit(a.Config.RequestsPerMinute, rateWindow, clientIP, a.Log))
		}
		r.Use(middleware.Guard(a.Session))
		sessionHandler.RegisterRoutes(r)

		orgHandler := orghandler.NewHandler(a.Departments, a.Designations)
		orgHandler.RegisterRoutes(r)

		employeeHandler := employeehandler.NewHandler(a.Employees)
		employeeHandler.RegisterRoutes(r)

		payHandler := payhandler.NewHandler(a.Salaries, a.Payrolls)
		payHandler.RegisterRoutes(r)

		timeoffHandler := timeoffhandler.NewHandler(a.Attendance, a.Leave)
		timeoffHandler.RegisterRoutes(r)

		adminHandler := adminhandler.NewHandler(a.Analytics, a.Users)
		adminHandler.RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, guard.DefaultPath, http.StatusFound)
	})
	return router
}
