// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/cnews-go/internal/auth"
	"github.com/olegiv/cnews-go/internal/cache"
	"github.com/olegiv/cnews-go/internal/config"
	"github.com/olegiv/cnews-go/internal/handler/api"
	"github.com/olegiv/cnews-go/internal/logging"
	"github.com/olegiv/cnews-go/internal/middleware"
	"github.com/olegiv/cnews-go/internal/model"
	"github.com/olegiv/cnews-go/internal/scheduler"
	"github.com/olegiv/cnews-go/internal/service"
	"github.com/olegiv/cnews-go/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed && !cfg.UseStaticAdmin() {
		if err := auth.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Cache: Redis when configured, in-process memory otherwise
	appCache, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache ready", "redis", cfg.UseRedisCache())

	// Auth wiring
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)

	var credentials auth.CredentialSource
	var staticAdmin *model.User
	if cfg.UseStaticAdmin() {
		credentials = auth.NewStaticCredentials(cfg.AdminEmail, cfg.AdminPassword)
		staticAdmin = &model.User{
			Email: cfg.AdminEmail,
			Role:  model.RoleAdmin,
			Name:  auth.DefaultAdminName,
		}
		slog.Info("using static admin credentials", "email", cfg.AdminEmail)
	} else {
		credentials = auth.NewStoreCredentials(db)
	}
	authn := middleware.NewAuthenticator(tokens, db, staticAdmin)

	// Services
	events := service.NewEventService(db)
	articles := service.NewArticleService(db, appCache, events)
	ledger := service.NewReactionLedger(cfg.ReactionMode, db)
	newsletter := service.NewNewsletterService(db)
	slog.Info("engagement ledger configured", "mode", cfg.ReactionMode)

	h := api.NewHandler(articles, ledger, newsletter, events, credentials, tokens, cfg.UploadsDir)

	// Scheduled publishing
	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	rateLimiter := middleware.NewRateLimiter(10, 20)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Middleware())

		r.Route("/articles", func(r chi.Router) {
			r.With(authn.OptionalAuth()).Get("/", h.ListArticles)
			r.Get("/trending", h.GetTrending)
			r.With(authn.RequireAdmin()).Get("/stats", h.GetStats)
			r.With(authn.OptionalAuth()).Get("/slug/{key}", h.GetArticle)
			r.With(authn.RequireAuth()).Post("/", h.CreateArticle)

			r.Route("/{key}", func(r chi.Router) {
				r.With(authn.OptionalAuth()).Get("/", h.GetArticle)
				r.With(authn.RequireAuth()).Put("/", h.UpdateArticle)
				r.With(authn.RequireAuth()).Delete("/", h.DeleteArticle)
				// PUT kept as an alias for older clients.
				r.With(authn.OptionalAuth()).Post("/like", h.LikeArticle)
				r.With(authn.OptionalAuth()).Put("/like", h.LikeArticle)
				r.With(authn.OptionalAuth()).Post("/dislike", h.DislikeArticle)
				r.With(authn.OptionalAuth()).Put("/dislike", h.DislikeArticle)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(authn.RequireAuth()).Get("/me", h.Me)
		})

		r.Post("/newsletter", h.Subscribe)
		r.With(authn.RequireAdmin()).Delete("/newsletter/{email}", h.Unsubscribe)

		r.With(authn.RequireAdmin()).Post("/upload", h.Upload)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			api.WriteSuccess(w, map[string]string{"status": "ok"})
		})
	})

	// Serve uploaded files
	uploadsFS := http.FileServer(http.Dir(cfg.UploadsDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadsFS))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
