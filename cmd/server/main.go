package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/welltechai/thinksync-service/internal/cache"
	"github.com/welltechai/thinksync-service/internal/config"
	"github.com/welltechai/thinksync-service/internal/database"
	"github.com/welltechai/thinksync-service/internal/handlers"
	"github.com/welltechai/thinksync-service/internal/middleware"
	"github.com/welltechai/thinksync-service/internal/repository"
	"github.com/welltechai/thinksync-service/internal/security"
	"github.com/welltechai/thinksync-service/internal/services"
	"github.com/welltechai/thinksync-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting ThinkSync service")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}
	defer cacheImpl.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	auditRepo := repository.NewAuditRepository()
	sessionRepo := repository.NewSessionRepository()

	// Initialize token issuer and services; one instance each for the
	// process lifetime
	tokenIssuer := security.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(userRepo, auditRepo, sessionRepo, tokenIssuer, cacheImpl, cfg.Auth)
	notesService := services.NewNotesService(sessionRepo, auditRepo)

	// Seed the admin account
	if err := authService.EnsureAdmin(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure admin account")
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService)
	sessionsHandler := handlers.NewSessionsHandler(notesService)

	// Authorization gate
	gate := middleware.NewGate(tokenIssuer, authService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Authentication API
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(gate.Authenticate)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(gate.Authenticate, gate.RequireActive)
			r.Get("/profile", authHandler.Profile)
		})

		// Admin endpoints: the active-status check always runs before the
		// role check, so a suspended admin loses access immediately
		r.Route("/admin", func(r chi.Router) {
			r.Use(gate.Authenticate, gate.RequireActive, gate.RequireAdmin)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{id}/status", adminHandler.UpdateUserStatus)
			r.Get("/users/{id}/audit", adminHandler.UserAudit)
			r.Get("/stats", adminHandler.Stats)
		})
	})

	// Therapy session API
	r.Route("/api/therapy", func(r chi.Router) {
		r.Use(gate.Authenticate, gate.RequireActive)
		r.Post("/sessions", sessionsHandler.CreateSession)
		r.Get("/sessions", sessionsHandler.ListSessions)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
