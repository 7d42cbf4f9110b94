package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nightshuttle.campusgo.org/internal/app"
	"nightshuttle.campusgo.org/internal/appconf"
	"nightshuttle.campusgo.org/internal/clock"
	"nightshuttle.campusgo.org/internal/events"
	"nightshuttle.campusgo.org/internal/fleet"
	"nightshuttle.campusgo.org/internal/ledger"
	"nightshuttle.campusgo.org/internal/logging"
	"nightshuttle.campusgo.org/internal/metrics"
	"nightshuttle.campusgo.org/internal/restapi"
	"nightshuttle.campusgo.org/internal/store"
	"nightshuttle.campusgo.org/internal/webui"
)

func main() {
	cfg := appconf.Load()
	logger := logging.NewLogger(cfg.Env == appconf.Production)

	coreApp, cleanup, err := BuildApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	mux := http.NewServeMux()
	webui.New(coreApp).SetRoutes(mux)
	mux.Handle("/", restapi.New(coreApp).Routes())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("forced shutdown", "error", err)
		}
	}
}

// BuildApplication assembles the application dependencies from config.
// The returned cleanup closes the store and drains the event publisher.
func BuildApplication(cfg appconf.Config, logger *slog.Logger) (*app.Application, func(), error) {
	m := metrics.New()

	st, err := store.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger, m)
		if err != nil {
			// The service runs fine without events; log and continue.
			logging.LogError(logger, "event publishing disabled", err)
			publisher = nil
		}
	}

	sysClock := clock.SystemClock{}
	coreApp := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Clock:     sysClock,
		Metrics:   m,
		Store:     st,
		Registry:  fleet.DefaultRegistry(),
		Ledger:    ledger.New(st, sysClock, logger),
		Publisher: publisher,
	}

	cleanup := func() {
		publisher.Close()
		logging.SafeClose(st, logger, "store")
	}
	return coreApp, cleanup, nil
}
