package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microshop/internal/config"
	"microshop/internal/database"
	"microshop/internal/handler"
	"microshop/internal/logging"
	"microshop/internal/registry"
	"microshop/internal/service"
	"microshop/internal/storage/postgres"
)

func main() {
	cfg := config.NewServiceConfig("localhost:8081")
	logging.Setup("user-service")

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	if err := database.InitUserSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.RegistryURL != "" {
		client := registry.NewClient(cfg.RegistryURL)
		go registry.NewRegistration(client, registry.ServiceUsers, cfg.AdvertiseURL, 10*time.Second).Start(ctx)
	}

	userSvc := service.NewUserService(postgres.NewUserStore(db))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/users", handler.CreateUserHandler(userSvc))
	r.Get("/api/users", handler.ListUsersHandler(userSvc))
	r.Get("/api/users/{id}", handler.GetUserHandler(userSvc))
	r.Put("/api/users/{id}", handler.ReplaceUserHandler(userSvc))
	r.Patch("/api/users/{id}", handler.PatchUserHandler(userSvc))
	r.Delete("/api/users/{id}", handler.DeleteUserHandler(userSvc))

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
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

	cancel()
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
