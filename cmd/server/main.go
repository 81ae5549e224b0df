package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holiday-planner/internal/config"
	"holiday-planner/internal/handlers"
	"holiday-planner/internal/logger"
	"holiday-planner/internal/models"
	"holiday-planner/internal/storage"

	"github.com/rs/zerolog"
)

const sessionCleanupInterval = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	sessions, err := storage.NewSessionDB(cfg.SessionsPath)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer sessions.Close()

	users := storage.NewCredentialStore(cfg.UsersPath, log)
	if err := seedAdmin(users, cfg, log); err != nil {
		return err
	}

	h := handlers.NewHandlers(users, storage.NewPlanFile(cfg.PlansPath), sessions, log, cfg.SecureCookie)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go cleanSessions(ctx, sessions, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("users", cfg.UsersPath).
			Str("plans", cfg.PlansPath).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRouter(h *handlers.Handlers) http.Handler {
	return h.LogRequests(h.Routes())
}

// seedAdmin registers ADMIN_USER when it does not exist yet.
func seedAdmin(users *storage.CredentialStore, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		return nil
	}
	err := users.Register(cfg.AdminUser, cfg.AdminPassword)
	switch {
	case err == nil:
		log.Info().Str("username", cfg.AdminUser).Msg("admin user created")
	case errors.Is(err, models.ErrDuplicateUser):
		log.Debug().Str("username", cfg.AdminUser).Msg("admin user already exists")
	default:
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func cleanSessions(ctx context.Context, sessions *storage.SessionDB, log zerolog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions()
			if err != nil {
				log.Error().Err(err).Msg("failed to clean expired sessions")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("expired sessions cleaned")
			}
		}
	}
}
