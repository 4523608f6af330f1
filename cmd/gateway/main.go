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
	"microshop/internal/gateway"
	"microshop/internal/logging"
	"microshop/internal/registry"
)

func main() {
	cfg := config.NewGatewayConfig()
	logging.Setup("gateway")

	ctx, cancel := context.WithCancel(context.Background())

	var resolver gateway.Resolver
	if cfg.RegistryURL != "" {
		client := registry.NewClient(cfg.RegistryURL)
		resolver = client
		go registry.NewRegistration(client, "gateway", "http://"+cfg.RunAddress, 10*time.Second).Start(ctx)
	} else {
		resolver = registry.Static{
			registry.ServiceUsers:    cfg.UserServiceURL,
			registry.ServiceProducts: cfg.ProductServiceURL,
			registry.ServiceOrders:   cfg.OrderServiceURL,
		}
	}

	var limiter gateway.Limiter
	if cfg.RedisAddr != "" {
		limiter = gateway.NewRedisLimiter(cfg.RedisAddr, cfg.RateLimitRPM)
	}

	if cfg.JWTSecret != "" && cfg.AdminPasswordHash == "" {
		slog.Error("JWT_SECRET set without ADMIN_PASSWORD_HASH")
		os.Exit(1)
	}

	router := gateway.NewRouter(gateway.RouterOptions{
		Resolver:          resolver,
		Limiter:           limiter,
		JWTSecret:         cfg.JWTSecret,
		AdminLogin:        cfg.AdminLogin,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      router,
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

	cancel() // stop registry heartbeat
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
