// Package main implements the server entry point for the ARAS Authentication
// Service. The identity domain (repository → usecase → handler) is the same
// Clean Architecture layering the teacher used, but it now runs as an
// example application on top of the corefw framework core: a single
// app.Application owns the register→boot→run→terminate lifecycle, routes
// are declared through the framework's own router DSL (internal/provider),
// services are resolved through the DI kernel, and net/http plus chi are
// reduced to the outer transport that feeds requests into Application.Run.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aras-services/corefw/config"
	httphandler "github.com/aras-services/corefw/internal/delivery/http"
	authmiddleware "github.com/aras-services/corefw/internal/middleware"
	"github.com/aras-services/corefw/internal/provider"
	"github.com/aras-services/corefw/pkg/app"
	"github.com/aras-services/corefw/pkg/bootstrap"
	"github.com/aras-services/corefw/pkg/query"
	"github.com/aras-services/corefw/pkg/query/executor/pgxexecutor"
	"github.com/aras-services/corefw/pkg/query/executor/sqlexecutor"
)

// Version information - set during build time via ldflags
var (
	version   = "1.1.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// printVersion prints version information and exits
func printVersion() {
	fmt.Printf("aras_auth version %s\n", version)
	if buildTime != "unknown" {
		fmt.Printf("Build Time: %s\n", buildTime)
	}
	if gitCommit != "unknown" {
		fmt.Printf("Git Commit: %s\n", gitCommit)
	}
	os.Exit(0)
}

// main boots the framework Application, registers the identity example's
// single provider against it, and hands the resulting request-serving
// Application to a thin chi-based transport.
func main() {

	// Check for version flag before any initialization
	if len(os.Args) > 1 {
		for _, arg := range os.Args[1:] {
			if arg == "--version" || arg == "-v" {
				printVersion()
			}
		}
	}

	// PHASE 1: Configuration and Infrastructure Setup
	// The example app's own settings (DB DSN, JWT secret/expiries, SMTP,
	// admin bootstrap) load through config.Load(), same as the teacher.
	// The framework core's own settings (strict mode, telemetry, caches)
	// load separately through bootstrap.Load as a named environment preset.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	envName := os.Getenv("COREFW_ENV")
	profile, err := bootstrap.Load(envName, os.Getenv("COREFW_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load bootstrap profile: %v", err)
	}

	// Initialize structured logger using Factory pattern. Profiles with
	// Container.Debug set (the development, testing and staging presets)
	// get the human-readable zap development encoder; the rest get the
	// production JSON encoder.
	var logger *zap.Logger
	if profile.Container.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() // Resource Management: Ensure log buffer is flushed on exit

	logger.Info("bootstrap profile loaded", zap.String("profile", profile.Name))

	// PHASE 2: Database Connection and Health Check
	// COREFW_DB_DRIVER picks which Executor adapter backs pkg/query: "pgx"
	// (default) pools through jackc/pgx/v5, "database/sql" goes through the
	// standard library's connection pooling via lib/pq instead. Both satisfy
	// the same query.Executor contract; only this phase knows which one is
	// live.
	driver := os.Getenv("COREFW_DB_DRIVER")
	if driver == "" {
		driver = "pgx"
	}

	var exec query.Executor
	var closeDB func()

	switch driver {
	case "pgx":
		db, err := pgxpool.New(context.Background(), cfg.GetDSN())
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.Ping(context.Background()); err != nil {
			logger.Fatal("Failed to ping database", zap.Error(err))
		}
		exec = pgxexecutor.New(db)
		closeDB = db.Close
	case "database/sql":
		sqlExec, err := sqlexecutor.Open(cfg.GetDSN())
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		exec = sqlExec
		closeDB = func() {
			if err := sqlExec.Close(); err != nil {
				logger.Error("Error closing database/sql pool", zap.Error(err))
			}
		}
	default:
		logger.Fatal("Unsupported COREFW_DB_DRIVER", zap.String("driver", driver))
	}
	defer closeDB() // Resource Management: Ensure database connection is closed

	logger.Info("Connected to database successfully", zap.String("driver", driver))

	// PHASE 3: Framework Application Assembly
	// New() builds the Container (with its blueprint cache and telemetry
	// recorder) and the route Registry from the bootstrap profile, but
	// registers nothing yet — that happens through the identity provider.
	application := app.New(profile)

	identityProvider := provider.NewIdentityProvider(provider.IdentityConfig{
		Exec:         exec,
		Grammar:      query.NewPostgresGrammar(),
		JWTSecretKey: cfg.JWT.SecretKey,
		JWTAccess:    cfg.JWT.AccessExpiry,
		JWTRefresh:   cfg.JWT.RefreshExpiry,
	})
	if err := application.Register(identityProvider); err != nil {
		logger.Fatal("Failed to register identity provider", zap.Error(err))
	}

	if err := application.Boot(); err != nil {
		logger.Fatal("Failed to boot application", zap.Error(err))
	}

	// The route file is whatever the identity provider's Boot already
	// declared through the DSL; LoadRoutes just compiles the buffered
	// definitions into the matching engine (and persists the exportable
	// subset to the route cache, when a cache directory is configured).
	routeCachePath := ""
	if profile.Container.CacheDir != "" {
		routeCachePath = profile.Container.CacheDir + "/routes.json"
	}
	if err := application.LoadRoutes(routeCachePath, nil); err != nil {
		logger.Fatal("Failed to compile routes", zap.Error(err))
	}

	// PHASE 4: CORS is the one piece of the teacher's middleware the
	// transport still needs directly. Auth/RBAC checks are wrapped around
	// each route's handler inside the identity provider's Boot; CORS sits
	// outside any route, same as the teacher's main() wired it outside any
	// route group.
	corsMiddleware := authmiddleware.NewCORSMiddleware()

	// PHASE 5: Transport Assembly
	// Chi (and its bundled middleware) remains the outer net/http mount;
	// it never matches routes itself here — every request past the
	// middleware chain falls through to the framework's own router via
	// httphandler.Serve.
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.NotFound(httphandler.Serve(application, logger))
	r.MethodNotAllowed(httphandler.Serve(application, logger))
	r.Handle("/api/v1/*", httphandler.Serve(application, logger))

	// PHASE 6: Server Initialization and Startup
	server := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.GetServerAddr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// PHASE 7: Graceful Shutdown Implementation
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := application.Terminate(); err != nil {
		logger.Error("Error flushing telemetry during termination", zap.Error(err))
	}

	logger.Info("Server exited")
}
