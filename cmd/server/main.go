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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orci-tz/mafunzo/internal/api"
	"github.com/orci-tz/mafunzo/internal/config"
	"github.com/orci-tz/mafunzo/internal/db"
	"github.com/orci-tz/mafunzo/internal/logging"
	"github.com/orci-tz/mafunzo/internal/middleware"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mafunzo-server",
		Short:         "Training history survey API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	root.AddCommand(newImportCmd())
	return root
}

// bootstrap loads configuration and opens the configured store with its
// users seeded.
func bootstrap(ctx context.Context) (*config.Config, api.Store, func() error, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	var (
		store   api.Store
		closeFn = func() error { return nil }
	)
	if cfg.Database.Path != "" {
		s, err := db.Open(cfg.Database.Path, logger)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		store, closeFn = s, s.Close
		n, err := s.CountResponses(ctx)
		if err != nil {
			_ = s.Close()
			return nil, nil, nil, nil, err
		}
		logger.Info("using sqlite store", zap.String("path", cfg.Database.Path), zap.Int("responses", n))
	} else {
		store = api.NewMemoryStore()
		logger.Warn("SURVEY_DB_PATH not set; responses are kept in memory only")
	}

	if err := api.SeedUsers(ctx, store, cfg.Users); err != nil {
		_ = closeFn()
		return nil, nil, nil, nil, fmt.Errorf("seed users: %w", err)
	}
	return cfg, store, closeFn, logger, nil
}

func serve(ctx context.Context) error {
	cfg, store, closeStore, logger, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
		_ = logger.Sync()
	}()

	if cfg.UsingDevSecret() {
		logger.Warn("SURVEY_JWT_SECRET not set; using the development secret")
	}

	router := api.NewRouter(store, middleware.NewTokenAuth(cfg.Auth.JWTSecret), api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Version:     version,
		StartYear:   cfg.Report.StartYear,
		EndYear:     cfg.Report.EndYear,
		Logger:      logger,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("survey server listening", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
