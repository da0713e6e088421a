package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/config"
	"github.com/crucial707/student-records/internal/db"
	"github.com/crucial707/student-records/internal/logging"
	"github.com/crucial707/student-records/internal/repo"
	"github.com/crucial707/student-records/internal/scheduler"
	"github.com/crucial707/student-records/internal/views"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogFormat, cfg.LogLevel, os.Stderr); err != nil {
		return err
	}

	// Connect to database FIRST
	database, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("connected to database", "driver", cfg.DBDriver)

	if cfg.AutoMigrate {
		version, err := db.Run(cfg)
		if err != nil {
			return err
		}
		slog.Info("migrations applied", "version", version)
	}

	renderer, err := views.New()
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set; sessions will not survive a restart")
	}
	store := auth.NewCookieStore([]byte(cfg.SessionSecret), cfg.SessionMaxAge, cfg.TLSEnabled())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, auth.NewSessions(store), renderer),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuditRetentionDays > 0 {
		retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
		stopJobs, err := scheduler.Start(ctx,
			scheduler.AuditPrune(cfg.AuditPruneSchedule, repo.NewAuditRepo(database), retention, nil))
		if err != nil {
			return err
		}
		defer stopJobs()
	}

	// Start server LAST
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSEnabled(), "env", cfg.Env)
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
