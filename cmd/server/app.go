package main

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/diewo77/go-demenagement/auth"
	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/config"
	"github.com/diewo77/go-demenagement/internal/feed"
	"github.com/diewo77/go-demenagement/internal/handlers"
	"github.com/diewo77/go-demenagement/internal/logging"
	"github.com/diewo77/go-demenagement/internal/refresh"
	"github.com/diewo77/go-demenagement/internal/reporting"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/sirupsen/logrus"
)

// App is the main application handler. It owns the routes and the pollers
// that keep the calendar, dashboard and report views current.
type App struct {
	mux      *http.ServeMux
	repo     *store.Repository
	svc      *services.Services
	broker   feed.Broker
	sessions *auth.Manager

	calendar  *refresh.Poller[services.CalendarView]
	dashboard *refresh.Poller[reporting.Dashboard]
	reports   *refresh.Poller[reporting.Report]
	unsub     func()
}

// NewApp creates the application with all routes configured. Pollers start
// with Start.
func NewApp(cfg *config.Config, deps services.Deps) *App {
	svc := services.New(deps)
	sessions := auth.NewManager(cfg.App.SessionSecret, 0, svc.Auth.Lookup)
	sessions.SetSecure(!cfg.App.Dev)

	a := &App{
		mux:      http.NewServeMux(),
		repo:     deps.Repo,
		svc:      svc,
		broker:   deps.Broker,
		sessions: sessions,
	}
	a.calendar = &refresh.Poller[services.CalendarView]{
		Name:     "calendar",
		Interval: cfg.Refresh.Calendar,
		Timeout:  cfg.Refresh.Timeout,
		Fetch:    svc.Calendar.Fetch,
		Snapshot: &refresh.Snapshot[services.CalendarView]{},
	}
	a.dashboard = &refresh.Poller[reporting.Dashboard]{
		Name:     "dashboard",
		Interval: cfg.Refresh.Dashboard,
		Timeout:  cfg.Refresh.Timeout,
		Fetch:    svc.Dashboard.Fetch,
		Snapshot: svc.Dashboard.Snapshot,
	}
	a.reports = &refresh.Poller[reporting.Report]{
		Name:     "reports",
		Interval: cfg.Refresh.Reports,
		Timeout:  cfg.Refresh.Timeout,
		Fetch:    svc.Reports.Fetch,
		Snapshot: svc.Reports.Snapshot,
	}

	handlers.NewRouterConfig(svc, sessions, a.calendar.Snapshot, deps.Location, cfg.App.Company).Register(a.mux)
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.healthz)
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withRecover(a.sessions.Middleware(a.mux)).ServeHTTP(w, r)
}

// Start launches the pollers. The report poller also refreshes on every
// change to the prestations relation.
func (a *App) Start(ctx context.Context) {
	if a.broker != nil {
		events, unsub := a.broker.Subscribe(ctx, feed.RelationServices)
		a.unsub = unsub
		a.reports.Trigger = feed.Signals(events)
	}
	a.calendar.Start(ctx)
	a.dashboard.Start(ctx)
	a.reports.Start(ctx)
}

// Stop cancels in-flight fetches and waits for the pollers to exit.
func (a *App) Stop() {
	if a.unsub != nil {
		a.unsub()
	}
	a.calendar.Stop()
	a.dashboard.Stop()
	a.reports.Stop()
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthz also checks the Record Store.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.repo.Ping(ctx); err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs method, path, status and duration of every request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		entry := logging.Get().WithFields(logrus.Fields{
			"module":   "http",
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request")
	})
}

// withRecover turns a handler panic into a 500.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logging.Get().WithFields(logrus.Fields{
					"module": "http",
					"path":   r.URL.Path,
					"panic":  v,
					"stack":  string(debug.Stack()),
				}).Error("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
