package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	httpapi "github.com/hperssn/recharge/internal/http"
	"github.com/hperssn/recharge/internal/recommend"
	"github.com/hperssn/recharge/internal/runner"
	"github.com/hperssn/recharge/internal/storage"
)

func serveAction(ctx *cli.Context) error {
	cfg, log, closer, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	repo, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer repo.Close()

	if cfg.Storage.Seed {
		n, err := storage.Seed(ctx.Context, repo)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded catalog", "exercises", n)
		}
	}

	manager := runner.NewSessionManager(repo, log, runner.Options{
		TickInterval:    cfg.Session.TickInterval,
		Retention:       cfg.Session.Retention,
		CleanupInterval: cfg.Session.CleanupInterval,
	})
	defer manager.Close()

	server := httpapi.NewServer(
		repo,
		repo,
		recommend.NewSelector(cfg.Recommend.Limit, nil),
		manager,
		log,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Routes(),
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Open event streams only end when their session stops.
	manager.Close()

	return srv.Shutdown(shutdownCtx)
}
