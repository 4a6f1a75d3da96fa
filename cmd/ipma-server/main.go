package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/ipma-weather/internal/adapter/http"
	"github.com/couchcryptid/ipma-weather/internal/adapter/ipma"
	"github.com/couchcryptid/ipma-weather/internal/config"
	"github.com/couchcryptid/ipma-weather/internal/observability"
	"github.com/couchcryptid/ipma-weather/internal/weather"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := ipma.NewClient(cfg.IPMABaseURL, cfg.IPMATimeout, metrics, logger)
	svc := weather.New(client, logger, metrics, weather.WithLoadTimeout(2*cfg.IPMATimeout))

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the reference cache. A failure here is not fatal; the first
	// request that needs reference data retries the load.
	if cfg.Preload {
		go func() {
			if _, err := svc.Initialize(ctx); err != nil {
				logger.Warn("reference preload failed", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "upstream", cfg.IPMABaseURL)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
