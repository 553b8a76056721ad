// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
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

	"github.com/remila/backstyle/internal/analytics"
	"github.com/remila/backstyle/internal/auth"
	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/config"
	"github.com/remila/backstyle/internal/geoip"
	"github.com/remila/backstyle/internal/handler"
	"github.com/remila/backstyle/internal/imaging"
	"github.com/remila/backstyle/internal/logging"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/scheduler"
	"github.com/remila/backstyle/internal/session"
	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "backstyle - REMILA Back Style Hair Contest backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_DB_PATH         SQLite database path (default: ./data/backstyle.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_UPLOADS_DIR     Entry photo storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_REDIS_URL       Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_GEOIP_DB_PATH   Path to GeoLite2-Country.mmdb (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REMILA_DO_SEED         Seed sample contest content (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("backstyle %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

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

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
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

	// Ensure data and uploads directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
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

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed the default admin account and, optionally, demo content
	ctx := context.Background()
	adminHash, err := auth.HashPassword(store.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing default admin password: %w", err)
	}
	if err := store.Seed(ctx, db, adminHash); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if cfg.DoSeed {
		if err := store.SeedDemoContent(ctx, db); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}

	// Session manager and resolver
	sessionManager := session.New(db, cfg.IsDevelopment())
	resolver := auth.NewResolver(sessionManager, db, logger)
	slog.Info("session manager initialized")

	// Record sign-in/sign-out transitions in the audit log
	queries := store.New(db)
	resolver.Subscribe(func(event auth.Event, state auth.State) {
		params := store.CreateEventParams{
			CreatedAt: time.Now(),
			Level:     store.EventLevelInfo,
			Category:  store.EventCategoryAuth,
			Message:   "auth state changed: " + string(event),
		}
		if state.Profile != nil {
			params.UserID = sql.NullInt64{Int64: state.Profile.ID, Valid: true}
		}
		if err := queries.CreateEvent(ctx, params); err != nil {
			slog.Warn("failed to record auth event", "error", err)
		}
	})

	// Content cache
	cacheManager := cache.NewManager(cache.ManagerOptions{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
		Log:        logger,
	})
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Warn("error closing cache", "error", err)
		}
	}()

	// GeoIP lookup (optional)
	geo, err := geoip.NewLookup(cfg.GeoIPDBPath)
	if err != nil {
		return fmt.Errorf("loading GeoIP database: %w", err)
	}
	defer geo.Close()
	if geo.IsEnabled() {
		slog.Info("GeoIP lookup enabled", "path", cfg.GeoIPDBPath)
	}

	// Page view tracker. The IP hash salt is derived from the session
	// secret so hashes stay stable across restarts.
	tracker := analytics.NewTracker(db, geo, cfg.SessionSecret, logger)

	// Entry photo processing
	images := imaging.NewProcessor(cfg.UploadsDir)

	// Login protection and global rate limiting
	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	rateLimiter := middleware.NewGlobalRateLimiter(50, 100)

	h := handler.NewHandler(handler.Options{
		DB:         db,
		Resolver:   resolver,
		Cache:      cacheManager,
		Tracker:    tracker,
		Images:     images,
		Protection: protection,
		Version:    versionInfo,
	})

	r := buildRouter(cfg, h, resolver, sessionManager.LoadAndSave, protection, rateLimiter)

	// Background jobs
	sched := scheduler.New(db, cacheManager, geo, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for large photo uploads
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

// buildRouter mounts all routes with their middleware chains.
func buildRouter(
	cfg *config.Config,
	h *handler.Handler,
	resolver *auth.Resolver,
	loadAndSave func(http.Handler) http.Handler,
	protection *middleware.LoginProtection,
	rateLimiter *middleware.GlobalRateLimiter,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestPath)
	r.Use(rateLimiter.Middleware())
	r.Use(loadAndSave)
	r.Use(middleware.SkipCSRF("/api/v1/track"))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.ResolveSession(resolver))

	// Health probes
	r.Get("/health", h.Health)
	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)

	// Entry photos
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	r.Route("/api/v1", func(r chi.Router) {
		// Public site surface
		r.Get("/status", h.Status)
		r.Get("/news", h.ListPublicNews)
		r.Get("/news/{slug}", h.GetPublicNews)
		r.Get("/judges", h.ListPublicJudges)
		r.Get("/prizes", h.ListPublicPrizes)
		r.Get("/sponsors", h.ListPublicSponsors)
		r.Get("/faq", h.ListPublicFAQs)
		r.Get("/entries", h.ListPublicEntries)
		r.Get("/site", h.GetSite)
		r.Post("/track", h.Track)

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.With(protection.Middleware()).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)
			r.Get("/menu", h.Menu)
		})

		// Admin surface: session required, feature areas gated per flag
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.With(middleware.RequireFeature(auth.FeatureDashboard)).Get("/dashboard", h.Dashboard)
			r.With(middleware.RequireFeature(auth.FeatureKPI)).Get("/kpi", h.KPI)

			r.Route("/news", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeatureNews))
				r.Get("/", h.ListNews)
				r.Post("/", h.CreateNews)
				r.Get("/{id}", h.GetNews)
				r.Put("/{id}", h.UpdateNews)
				r.Post("/{id}/publish", h.PublishNews)
				r.Delete("/{id}", h.DeleteNews)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeatureWorkExamples))
				r.Get("/", h.ListEntries)
				r.Post("/", h.CreateEntry)
				r.Get("/{id}", h.GetEntry)
				r.Put("/{id}", h.UpdateEntry)
				r.Post("/{id}/photo", h.UpdateEntryPhoto)
				r.Post("/{id}/status", h.UpdateEntryStatus)
				r.Delete("/{id}", h.DeleteEntry)
			})

			r.Route("/judges", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeatureJudges))
				r.Get("/", h.ListJudges)
				r.Post("/", h.CreateJudge)
				r.Put("/{id}", h.UpdateJudge)
				r.Delete("/{id}", h.DeleteJudge)
			})

			r.Route("/prizes", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeaturePrizes))
				r.Get("/", h.ListPrizes)
				r.Post("/", h.CreatePrize)
				r.Put("/{id}", h.UpdatePrize)
				r.Delete("/{id}", h.DeletePrize)
			})

			r.Route("/sponsors", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeatureSponsors))
				r.Get("/", h.ListSponsors)
				r.Post("/", h.CreateSponsor)
				r.Put("/{id}", h.UpdateSponsor)
				r.Delete("/{id}", h.DeleteSponsor)
			})

			r.Route("/faqs", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeatureFAQ))
				r.Get("/", h.ListFAQs)
				r.Post("/", h.CreateFAQ)
				r.Put("/{id}", h.UpdateFAQ)
				r.Delete("/{id}", h.DeleteFAQ)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(middleware.RequireFeature(auth.FeatureSettings))
				r.Get("/", h.ListSettings)
				r.Put("/{key}", h.UpsertSetting)
				r.Delete("/{key}", h.DeleteSetting)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.ListProfiles)
				r.Post("/", h.CreateProfile)
				r.Get("/{id}", h.GetProfileByID)
				r.Put("/{id}", h.UpdateProfile)
				r.Post("/{id}/password", h.UpdateProfilePassword)
				r.Delete("/{id}", h.DeleteProfile)
			})

			r.With(middleware.RequireAdmin).Get("/events", h.ListEvents)
		})
	})

	return r
}
