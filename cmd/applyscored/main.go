// Command applyscored is the applyscore HTTP service.
// It serves the jobs and applications API, a health check, Prometheus
// metrics and the OpenAPI document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/applyscore/applyscore/internal/api"
	"github.com/applyscore/applyscore/internal/bootstrap"
	"github.com/applyscore/applyscore/internal/logging"
	"github.com/applyscore/applyscore/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: nearest .applyscore/config.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	rt, err := bootstrap.Build(ctx, cfg, m, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("close resources", zap.Error(err))
		}
	}()

	handler := api.NewHandler(rt.Jobs, rt.Applications, rt.Store, m, logger)
	handler.SetMaxBodyBytes(cfg.Server.MaxBodyBytes)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Routes(cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting applyscored",
			zap.String("addr", srv.Addr),
			zap.Bool("in_memory", cfg.Database.InMemory),
			zap.String("cache", cfg.Cache.Driver),
			zap.String("archive", cfg.Archive.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("http server closed")
	return nil
}
