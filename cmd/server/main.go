// Jobtrack API Server
//
// Usage:
//
//	server            Start the HTTP server
//	server -migrate   Run database migrations and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/api"
	"github.com/jobtrack/jobtrack/internal/auth"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/logger"
	"github.com/jobtrack/jobtrack/internal/reminders"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	migrateOnly := flag.Bool("migrate", false, "Run migrations and exit")
	migrationsDir := flag.String("migrations-dir", "", "Read migrations from this directory instead of the embedded set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if *migrationsDir != "" {
		cfg.MigrationsDir = *migrationsDir
	}

	if err := logger.Initialize(cfg.LogJSON); err != nil {
		return errors.Wrap(err, "initializing logger")
	}
	defer logger.Sync()
	log := logger.Named("server")

	if err := datetz.SetDefaultZone(cfg.DefaultTimeZone); err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "connecting to database")
	}
	defer database.Close()

	var migrations fs.FS = db.Migrations()
	if cfg.MigrationsDir != "" {
		migrations = os.DirFS(cfg.MigrationsDir)
	}
	if err := database.RunMigrations(ctx, migrations); err != nil {
		return errors.Wrap(err, "running migrations")
	}
	log.Infow("migrations complete", "dir", cfg.MigrationsDir)

	if *migrateOnly {
		log.Info("migration-only mode, exiting")
		return nil
	}

	opts := api.Options{
		CronSecret:     cfg.CronSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}
	if cfg.RemindersEnabled() {
		opts.Notifier = reminders.NewWebhookNotifier(cfg.ReminderWebhookURL, cfg.ReminderWebhookSecret)
		log.Infow("reminder webhook configured", "url", cfg.ReminderWebhookURL)
	}
	if cfg.CronSecret == "" {
		log.Warn("CRON_SECRET is not set, cron endpoints will reject every call")
	}

	apiServer := api.NewServer(database, auth.New(cfg.JWTSecret), opts)

	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if cfg.ReminderInterval > 0 {
		go reminders.NewScheduler(apiServer.Reminders(), cfg.ReminderInterval).Start(schedCtx)
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      apiServer.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("jobtrack API server starting", "addr", cfg.ListenAddr, "time_zone", cfg.DefaultTimeZone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "serving")
	case <-done:
	}
	log.Info("shutting down server")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}

	log.Info("server stopped")
	return nil
}
