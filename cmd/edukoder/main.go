// Package main is the entry point for the EduKoder API server. It loads
// configuration, wires the optional collaborators (database, Valkey, Pexels),
// sets up routing, and serves HTTP with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edukoder/internal/cache"
	"edukoder/internal/config"
	"edukoder/internal/database"
	"edukoder/internal/handlers"
	"edukoder/internal/images"
	"edukoder/internal/middleware"
	"edukoder/internal/router"
	"edukoder/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// The database is opened and migrated by the first order request, so
	// the server starts even when Postgres is down or not configured.
	db := database.NewLazy(cfg.DatabaseURL)
	defer db.Close()
	orderStore := store.NewOrderStore(db)

	var finderOpts []images.Option
	if cfg.ValkeyEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		cancel()
		if err != nil {
			slog.Warn("valkey unavailable, image search uncached", "error", err)
		} else {
			defer valkeyClient.Close()
			finderOpts = append(finderOpts, images.WithCache(cache.NewPhotoCache(valkeyClient, cache.DefaultPhotoTTL)))
		}
	}

	finder := images.NewFinder(cfg.PexelsAPIKey, &http.Client{}, finderOpts...)
	if !finder.Enabled() {
		slog.Warn("no Pexels API key, hero images fall back to the placeholder")
	}

	orderLimit := middleware.NewRateLimiter(router.OrderRateLimit, router.OrderRateWindow)
	defer orderLimit.Stop()

	r := router.New(router.Deps{
		Site:        handlers.NewSite(cfg.PingMessage, finder),
		Orders:      handlers.NewOrders(orderStore),
		OrderLimit:  orderLimit,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
