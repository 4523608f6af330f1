package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microshop/internal/config"
	"microshop/internal/logging"
	"microshop/internal/registry"
)

func main() {
	cfg := config.NewRegistryConfig()
	logging.Setup("registry")

	store := registry.NewStore(cfg.InstanceTTL)

	ctx, cancel := context.WithCancel(context.Background())
	go store.StartSweeper(ctx, cfg.SweepInterval)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      registry.NewRouter(store),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop sweeper
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
