package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/config"
	"github.com/crucial707/student-records/internal/handlers"
	"github.com/crucial707/student-records/internal/middleware"
	"github.com/crucial707/student-records/internal/repo"
	"github.com/crucial707/student-records/internal/views"
)

// newRouter wires repositories, handlers and middleware around one database pool and one session store.
func newRouter(database *sql.DB, cfg config.Config, sessions *auth.Sessions, v *views.Renderer) http.Handler {
	users := repo.NewUserRepo(database)
	students := repo.NewStudentRepo(database)
	audit := repo.NewAuditRepo(database)

	authHandler := &handlers.AuthHandler{Users: users, Sessions: sessions, Views: v}
	studentHandler := &handlers.StudentHandler{Repo: students, AuditRepo: audit, Sessions: sessions, Views: v}
	auditHandler := &handlers.AuditHandler{Repo: audit, Sessions: sessions, Views: v}
	healthHandler := &handlers.HealthHandler{DB: database}

	limiter := middleware.AuthRateLimiter()
	limiter.TrustProxy = cfg.TrustProxy

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer(handlers.InternalError(v)))
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.Prometheus)
	r.Use(middleware.MaxBytes(middleware.DefaultMaxFormBytes))

	r.NotFound(handlers.NotFound(v))
	r.MethodNotAllowed(handlers.MethodNotAllowed(v))

	// Probes and metrics (no auth)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Public
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/register", authHandler.RegisterForm)
		r.Post("/register", authHandler.Register)
	})

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions, users))
		r.Get("/", studentHandler.Index)
		r.Get("/logout", authHandler.Logout)
		r.Post("/add", studentHandler.Add)
		r.Get("/edit/{id:[0-9]+}", studentHandler.EditForm)
		r.Post("/edit/{id:[0-9]+}", studentHandler.Update)
		r.Get("/delete/{id}", studentHandler.Delete)
		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
