// Package server runs the HTTP API until the process is signalled.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arcade/internal/api"
	"arcade/internal/buildinfo"
	"arcade/internal/config"
)

const shutdownGrace = 10 * time.Second

// Run loads config from cfgPath (or $ARCADE_CONFIG) and serves until SIGINT
// or SIGTERM.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	return RunConfig(cfg)
}

// RunConfig serves with an already loaded cfg until SIGINT or SIGTERM.
func RunConfig(cfg config.Config) error {
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, cfg, logger)
}

// Serve runs the API with cfg until ctx is done, then drains in-flight
// requests.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	s, err := api.NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("close", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// streams end when ctx is cancelled so Shutdown can drain them
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", srv.Addr, "version", buildinfo.Version, "database", cfg.DatabaseURL != "", "redis", cfg.RedisURL != "")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(sctx)
}
