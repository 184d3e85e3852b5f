// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
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

	"github.com/travthru/travthru/internal/analytics"
	"github.com/travthru/travthru/internal/assistant"
	"github.com/travthru/travthru/internal/cache"
	"github.com/travthru/travthru/internal/config"
	"github.com/travthru/travthru/internal/geocode"
	"github.com/travthru/travthru/internal/geoip"
	"github.com/travthru/travthru/internal/handler"
	"github.com/travthru/travthru/internal/handler/api"
	"github.com/travthru/travthru/internal/logging"
	"github.com/travthru/travthru/internal/middleware"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/scheduler"
	"github.com/travthru/travthru/internal/session"
	"github.com/travthru/travthru/internal/store"
	"github.com/travthru/travthru/internal/version"
	"github.com/travthru/travthru/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, PUT /{id}, POST /{id}, DELETE /{id}
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Put(baseID, h.Update)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Delete(baseID, h.Delete)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "TravThru - Chauffeur & Car Rental Website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_DB_PATH           SQLite database path (default: ./data/travthru.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_WHATSAPP_PHONE    WhatsApp number for booking deep links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_OPENAI_API_KEY    Enables the chat assistant (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_GEOIP_DB_PATH     GeoLite2 country database for analytics (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TRAVTHRU_REDIS_URL         Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("travthru %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
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

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Create version info from build-time injected values
	versionInfo := version.Info{
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

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		err = db.Close()
		if err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the Event Log database
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed the bootstrap admin account on first start
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize cache manager with config
	cacheConfig := cache.CacheConfig{
		Type:            "memory",
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	cacheManager, err := cache.NewManager(store.New(db), cacheConfig)
	if err != nil {
		return fmt.Errorf("initializing cache manager: %w", err)
	}
	defer cacheManager.Stop()
	if cfg.UseRedisCache() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Initialize GeoIP lookup for analytics country resolution
	var geo *geoip.Lookup
	if cfg.GeoIPEnabled() {
		geo = geoip.NewLookup()
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("failed to load GeoIP database, country tracking disabled",
				"path", cfg.GeoIPDBPath, "error", err)
		} else {
			slog.Info("GeoIP lookup initialized", "path", cfg.GeoIPDBPath)
		}
	}

	// Page view tracking and rollups
	tracker := analytics.NewTracker(db, geo)
	aggregator := analytics.NewAggregator(db)

	// Initialize and start scheduler
	sched := scheduler.New(aggregator, geo, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Geocoding client for location autocomplete
	geocoder := geocode.New(cfg.GeocodeBaseURL, cfg.GeocodeCountry)

	// Chat assistant (optional, falls back to a fixed reply when unconfigured)
	var bot *assistant.Assistant
	if cfg.AssistantEnabled() {
		bot = assistant.New(cfg.OpenAIAPIKey)
		slog.Info("chat assistant enabled")
	} else {
		slog.Info("chat assistant not configured, using fallback replies")
	}

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Compress(5))               // Gzip compression for compressible content types
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)

	// Security headers middleware (CSP, HSTS, X-Frame-Options, etc.)
	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)

	// CSRF protection middleware (applied per route group, API routes are exempt)
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Initialize login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Public rate limiter for auth routes (defense-in-depth)
	// 10 requests per second with burst of 20 per IP
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection)
	adminHandler := handler.NewAdminHandler(db, renderer)
	articlesHandler := handler.NewArticlesHandler(db, renderer, cacheManager, cfg.UploadsDir)
	testimonialsHandler := handler.NewTestimonialsHandler(db, renderer)
	usersHandler := handler.NewUsersHandler(db, renderer)
	frontendHandler := handler.NewFrontendHandler(db, renderer, cacheManager, cfg.WhatsAppPhone)
	healthHandler := handler.NewHealthHandler(db, sessionManager, cfg.UploadsDir, versionInfo)
	apiHandler := api.NewHandler(geocoder, bot, cacheManager.General)

	// Health check routes (public, returns additional details for authenticated callers)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Public frontend routes (with page view tracking)
	r.Group(func(r chi.Router) {
		r.Use(tracker.Middleware())
		r.Use(csrfMiddleware)

		r.Get("/sitemap.xml", frontendHandler.Sitemap)
		r.Get("/robots.txt", frontendHandler.Robots)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteArticles, frontendHandler.ArticlesList)
		r.Get(handler.RouteArticleSlug, frontendHandler.ArticleBySlug)
		r.Get(handler.RouteInquiry, frontendHandler.CarInquiry)
		r.Post(handler.RouteBooking, frontendHandler.BookingSubmit)
		r.Post(handler.RouteTestimonials, testimonialsHandler.Submit)
	})

	// Auth routes (public, with CSRF and rate limiting)
	// Defense-in-depth: publicRateLimiter (10 req/s) + loginProtection (rate limit + account lockout on POST)
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Admin routes (protected with CSRF)
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		// Editor routes (editor + admin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEditor())

			// Dashboard
			r.Get(handler.RouteRoot, adminHandler.Dashboard)

			// Article management routes
			registerCRUD(r, handler.RouteArticles, handler.RouteArticlesID, crudHandlers{
				List: articlesHandler.List, NewForm: articlesHandler.NewForm, Create: articlesHandler.Create,
				EditForm: articlesHandler.EditForm, Update: articlesHandler.Update, Delete: articlesHandler.Delete,
			})
			r.Post(handler.RouteArticlesID+"/publish", articlesHandler.TogglePublish)
			r.Post(handler.RouteArticlesID+"/delete", articlesHandler.Delete) // HTML forms can't send DELETE
			r.Post(handler.RouteArticles+"/preview", articlesHandler.Preview)
			r.Post(handler.RouteArticles+handler.RouteSuffixUpload, articlesHandler.Upload)

			// Testimonial moderation routes
			r.Get(handler.RouteTestimonials, testimonialsHandler.List)
			r.Post(handler.RouteTestimonialsID+"/approve", testimonialsHandler.Approve)
			r.Post(handler.RouteTestimonialsID+"/reject", testimonialsHandler.Reject)
			r.Post(handler.RouteTestimonialsID+"/delete", testimonialsHandler.Delete)
		})

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			// User management routes
			r.Get(handler.RouteUsers, usersHandler.List)
			r.Get(handler.RouteUsers+handler.RouteSuffixNew, usersHandler.NewForm)
			r.Post(handler.RouteUsers, usersHandler.Create)
			r.Post(handler.RouteUsersID+"/role", usersHandler.SetRole)
			r.Post(handler.RouteUsersID+"/delete", usersHandler.Delete)
			r.Delete(handler.RouteUsersID, usersHandler.Delete)

			// Event log
			r.Get(handler.RouteEvents, adminHandler.Events)
		})
	})

	// REST API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Global rate limiting for API (100 requests per second with burst of 200)
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())

		r.Get("/status", apiHandler.Status)
		r.Get("/geocode", apiHandler.Geocode)
		r.Post("/chat", apiHandler.Chat)
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Static file serving
	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	// Static assets: cache for 1 year (31536000 seconds)
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Serve uploaded article images (configured via TRAVTHRU_UPLOADS_DIR)
	// Uploads: cache for 1 week (604800 seconds)
	uploadsDirFS := http.Dir(cfg.UploadsDir)
	uploadsHandler := middleware.StaticCache(604800)(http.StripPrefix("/uploads/", http.FileServer(uploadsDirFS)))
	r.Handle("/uploads/*", uploadsHandler)

	// 404 Not Found handler
	r.NotFound(frontendHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
