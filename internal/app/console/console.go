// Package console assembles the session layer, the resource services and the
// local console server from a Config.
package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hrconsole/internal/domain/analytics"
	"hrconsole/internal/domain/attendance"
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/department"
	"hrconsole/internal/domain/designation"
	"hrconsole/internal/domain/employee"
	"hrconsole/internal/domain/leave"
	"hrconsole/internal/domain/payroll"
	"hrconsole/internal/domain/resource"
	"hrconsole/internal/domain/salary"
	"hrconsole/internal/domain/session"
	"hrconsole/internal/domain/users"
	"hrconsole/internal/platform/apiclient"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/platform/crypto"
	"hrconsole/internal/platform/db"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/platform/logger"
	"hrconsole/internal/platform/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config  config.Config
	Log     zerolog.Logger
	Storage storage.Storage
	Client  *apiclient.Client
	Session *session.Store
	Jobs    *jobs.Service

	Departments  *department.Service
	Designations *designation.Service
	Employees    *employee.Service
	Salaries     *salary.Service
	Payrolls     *payroll.Service
	Attendance   *attendance.Service
	Leave        *leave.Service
	Analytics    *analytics.Service
	Users        *users.Service

	Router http.Handler

	closers []func()
}

// New wires the application. Restore runs last, after every collection has
// subscribed, so the first authenticated snapshot reaches all of them.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}

	st, err := app.openStorage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Storage = st

	var sess *session.Store
	client, err := apiclient.New(cfg.APIBaseURL, session.TokenSource(st),
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log),
		apiclient.WithUnauthorizedHook(func(path string) {
			if sess != nil && sess.HandleUnauthorized(context.Background()) {
				log.Info().Str("path", path).Msg("session expired, signed out")
			}
		}),
	)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}
	app.Client = client

	sess, err = session.New(st, client, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Session = sess

	deps := resource.Deps{API: client, Session: sess, Log: log}
	app.Departments = department.New(deps)
	app.Designations = designation.New(deps)
	app.Employees = employee.New(deps, cfg.SearchDebounce)
	app.Salaries = salary.New(deps)
	app.Payrolls = payroll.New(deps)
	app.Attendance = attendance.New(deps)
	app.Leave = leave.New(deps)
	app.Analytics = analytics.New(deps)
	app.Users = users.New(deps)
	app.closers = append(app.closers, app.Employees.Close)

	app.Jobs = jobs.New(cfg.JobQueueSize, log)
	jobCtx, stopJobs := context.WithCancel(context.Background())
	app.Jobs.Start(jobCtx)
	app.closers = append(app.closers, stopJobs)

	app.subscribe()

	if err := sess.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed")
	}

	app.Router = app.routes()
	return app, nil
}

// subscribe hooks the collections to session transitions. Staff collections
// load on sign-in; everything is dropped on sign-out.
func (a *App) subscribe() {
	auto := []struct {
		name   string
		target resource.Refresher
	}{
		{"departments", a.Departments},
		{"designations", a.Designations},
		{"employees", a.Employees},
		{"salaries", a.Salaries},
		{"analytics", a.Analytics},
	}
	for _, s := range auto {
		a.closers = append(a.closers, resource.AutoFetch(s.name, s.target, a.Session, a.Jobs, auth.Staff...))
	}

	unsubscribe := a.Session.Subscribe(func(snap session.Snapshot) {
		if snap.State != session.Anonymous {
			return
		}
		a.Payrolls.Clear()
		a.Attendance.Clear()
		a.Leave.Clear()
		a.Users.Clear()
	})
	a.closers = append(a.closers, unsubscribe)
}

func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	cfg := a.Config.Storage
	var inner storage.Storage
	switch cfg.Driver {
	case config.StorageMemory:
		inner = storage.NewMemory()
	case config.StorageFile:
		file, err := storage.NewFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("file storage: %w", err)
		}
		inner = file
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		inner = storage.NewRedis(client, cfg.RedisPrefix)
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := db.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		inner = storage.NewPostgres(pool)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	sealer, err := crypto.New(cfg.Key)
	if err != nil {
		return nil, err
	}
	if !sealer.Configured() && cfg.Driver != config.StorageMemory {
		a.Log.Warn().Str("driver", cfg.Driver).Msg("STORAGE_KEY not set, session token stored in plain text")
	}
	return storage.NewSealed(inner, sealer), nil
}

// Close releases everything New acquired, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run loads config, serves the console and shuts down on SIGINT or SIGTERM.
func Run() {
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	app, err := New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("console setup failed")
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("api", cfg.APIBaseURL).Msg("HR console listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
		}
	case <-sigCtx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}
