// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the property catalog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propertycms/internal/auth"
	"propertycms/internal/cache"
	"propertycms/internal/catalog"
	"propertycms/internal/config"
	"propertycms/internal/database"
	"propertycms/internal/handlers"
	"propertycms/internal/middleware"
	"propertycms/internal/router"
	"propertycms/internal/storage"
	"propertycms/internal/store"
	"propertycms/internal/upload"
)

func main() {
	// Load configuration from environment variables (and .env).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"branch_mode", cfg.CatalogBranchMode,
		"cache_ttl", cfg.CatalogCacheTTL,
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// Run pending migrations, then open the pool used by the stores.
	if err := database.MigrateDSN(cfg.DSN()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	db, err := database.Connect(startCtx, cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.SeedAdmin(startCtx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}
	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.SeedSamples(startCtx, db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Token revocations live in Valkey when configured, in memory otherwise.
	var revocations auth.Revocations
	if cfg.UseValkey() {
		valkeyClient, err := cache.ConnectValkey(startCtx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		revocations = auth.NewValkeyRevocations(valkeyClient)
	} else {
		slog.Warn("valkey not configured, token revocations kept in memory")
		revocations = auth.NewMemoryRevocations()
	}

	// Media goes to S3-compatible storage when configured, local disk otherwise.
	var (
		backend   storage.Backend
		uploadDir string
	)
	if cfg.UseS3() {
		s3Backend, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		backend = s3Backend
	} else {
		local, err := storage.NewLocal(cfg.UploadPath, "/uploads")
		if err != nil {
			slog.Error("failed to initialize upload directory", "error", err)
			os.Exit(1)
		}
		slog.Info("local storage ready", "path", local.Root())
		backend = local
		uploadDir = local.Root()
	}
	uploader := upload.New(backend, cfg.MaxFileSize, cfg.AllowedFileTypes)

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	propertyStore := store.NewPropertyStore(db)
	imageStore := store.NewImageStore(db)
	contactStore := store.NewContactStore(db)
	companyStore := store.NewCompanyStore(db)
	userStore := store.NewUserStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	aggregator := catalog.New(categoryStore, propertyStore, imageStore, uploader.URL, catalog.BranchMode(cfg.CatalogBranchMode))
	snapshot := cache.NewSnapshot(cfg.CatalogCacheTTL)
	authenticator := auth.New(userStore, revocations, cfg.JWTSecret, cfg.JWTTTL)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(categoryStore, propertyStore, imageStore, contactStore, uploader, snapshot, cacheLogStore)
	authHandlers := handlers.NewAuth(authenticator)
	publicHandlers := handlers.NewPublic(aggregator, snapshot, contactStore, companyStore)

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(authenticator, adminHandlers, authHandlers, publicHandlers, router.Options{
		AllowedOrigins: router.ParseOrigins(cfg.FrontendURL),
		UploadDir:      uploadDir,
		RateLimiter:    limiter,
	})

	// WriteTimeout leaves room for uploads up to MaxFileSize on slow links.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
