package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leadsite-api/internal/api"
	"github.com/leadsite-api/internal/auth"
	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/database"
	"github.com/leadsite-api/internal/mailer"
	"github.com/leadsite-api/internal/media"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/repository"
	"github.com/leadsite-api/internal/service"
	"github.com/leadsite-api/internal/throttle"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// backend is everything buildServices wires together
type backend struct {
	services *service.Services
	store    *media.Store
	mail     mailer.Mailer
	db       *database.DB // nil for the JSON driver
	close    func()
}

// openRepositories builds the repositories for the configured driver. The
// returned db is nil for the JSON driver.
func openRepositories(cfg *config.Config) (*repository.Repositories, *database.DB, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return repository.NewPostgres(db), db, nil
	default:
		log.Info().Str("dir", cfg.Storage.UploadDir).Msg("Using JSON document storage")
		return repository.NewJSON(cfg.Storage.UploadDir), nil, nil
	}
}

// buildServices wires storage, media and mail into the service layer
func buildServices(ctx context.Context, cfg *config.Config, m metrics.Provider) (*backend, error) {
	repos, db, err := openRepositories(cfg)
	if err != nil {
		return nil, err
	}
	b := &backend{db: db, close: func() {}}
	if db != nil {
		b.close = func() { db.Close() }
	}

	b.store, err = media.NewStore(cfg.Storage.UploadDir, log)
	if err != nil {
		b.close()
		return nil, err
	}

	b.mail, err = mailer.New(ctx, &cfg.Mail, log)
	if err != nil {
		b.close()
		return nil, err
	}

	b.services = service.NewServices(&service.Deps{
		Repos:   repos,
		Media:   b.store,
		Mailer:  b.mail,
		Metrics: m,
	}, cfg, log)

	return b, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Info().Msg("Starting lead site API server...")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(&cfg.Metrics)

	b, err := buildServices(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer b.close()
	services := b.services

	manager, err := auth.NewManager(&cfg.Admin)
	if err != nil {
		return fmt.Errorf("failed to initialize admin sessions: %w", err)
	}
	if !manager.Enabled() {
		log.Warn().Msg("ADMIN_PASSWORD is not set, admin login is disabled")
	}

	// Start background media sweeper
	services.Sweeper.StartProcessor(ctx)

	deps := &api.Dependencies{
		Services:  services,
		Auth:      manager,
		Limiter:   throttle.New(&cfg.Throttle, log),
		Metrics:   m,
		MediaRoot: b.store.Root(),
		Mailer:    b.mail.Provider(),
	}
	if b.db != nil {
		deps.Database = b.db
	}

	// Initialize router
	router := api.NewRouter(deps, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewHandler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("storage", cfg.Storage.Driver).
			Str("mailer", b.mail.Provider()).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	case err := <-serverErr:
		services.Sweeper.StopProcessor()
		return fmt.Errorf("server failed: %w", err)
	}

	// Stop sweeper before draining requests
	services.Sweeper.StopProcessor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
