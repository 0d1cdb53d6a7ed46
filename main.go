package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"pool-api/internal/config"
	"pool-api/internal/container"
	"pool-api/internal/handler"
	"pool-api/internal/middleware"
	"pool-api/pkg/database"
	"pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container == nil {
		return nil
	}

	if err := r.container.ShutdownMetrics(ctx); err != nil {
		r.log.WithError(err).Error("Failed to shutdown metrics provider")
		errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
	}

	if redisClient := r.container.GetRedisClient(); redisClient != nil {
		r.log.Info("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if db := r.container.DB; db != nil {
		r.log.Info("Closing database connection pool...")
		db.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"metrics":     cfg.MetricsEnabled,
	}).Info("Starting pool-api server")

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	c, err := container.New(ctx, cfg, log, db)
	if err != nil {
		db.Close()
		log.WithError(err).Fatal("Failed to create container")
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        setupRouter(c),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Runs on every exit path; Cleanup is idempotent
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	authService := c.GetAuthService()

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID())
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(c.Recorder))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(15 * time.Second))

	checks := map[string]handler.HealthChecker{"database": c.DB}
	if c.HasRedis() {
		checks["redis"] = c.GetRedisClient()
	}
	healthHandler := handler.NewHealthHandler(cfg.ServiceName, log, checks)
	pollHandler := handler.NewPollHandler(c.Services.Polls, c.Services.Memberships, log)
	gameHandler := handler.NewGameHandler(c.Services.Games, log)
	guessHandler := handler.NewGuessHandler(c.Services.Guesses, log)
	userHandler := handler.NewUserHandler(c.Services.Users, log)

	r.Get("/health", healthHandler.Check)
	if c.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", c.MetricsHandler)
	}

	// Public routes
	r.Get("/polls/count", pollHandler.Count)
	r.Get("/guesses/count", guessHandler.Count)
	r.Get("/users/count", userHandler.Count)
	r.Post("/users", userHandler.SignIn)

	limiter := c.Services.RateLimiter

	// Pool creation works for anonymous callers too
	r.With(
		middleware.RateLimit(limiter, "polls", log),
		middleware.OptionalAuth(authService, log),
	).Post("/polls", pollHandler.Create)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authService, log))

		r.Get("/me", userHandler.Me)
		r.With(middleware.RateLimit(limiter, "join", log)).Post("/polls/join", pollHandler.Join)
		r.Get("/polls", pollHandler.List)
		r.Get("/polls/{id}", pollHandler.Get)
		r.Get("/polls/{id}/games", gameHandler.List)
		r.Post("/polls/{id}/games/{gameId}/guesses", guessHandler.Submit)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errors.Write(w, errors.NewNotFoundError("Endpoint not found"), middleware.RequestIDFromContext(r.Context()))
	})

	log.Info("Router configured successfully")
	return r
}
