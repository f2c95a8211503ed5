package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/svitsai-vanhu/service-estimates/internal/application"
	"github.com/svitsai-vanhu/service-estimates/internal/cache"
	"github.com/svitsai-vanhu/service-estimates/internal/config"
	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
	"github.com/svitsai-vanhu/service-estimates/internal/events"
	"github.com/svitsai-vanhu/service-estimates/internal/fareapi"
	"github.com/svitsai-vanhu/service-estimates/internal/geocode"
	"github.com/svitsai-vanhu/service-estimates/internal/handler"
	"github.com/svitsai-vanhu/service-estimates/internal/health"
	"github.com/svitsai-vanhu/service-estimates/internal/logger"
	"github.com/svitsai-vanhu/service-estimates/internal/middleware"
	"github.com/svitsai-vanhu/service-estimates/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-estimates")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-estimates",
		zap.String("port", cfg.Port),
		zap.Bool("fare_backend", cfg.FareAPIBaseURL != ""),
		zap.Bool("geoapify_key", cfg.GeoapifyKey != ""),
	)

	// Pricing profiles: database when configured, compiled-in defaults
	// otherwise. Loaded once, immutable afterwards.
	profiles := estimate.DefaultProfiles()
	var db *gorm.DB
	if cfg.DB.Enabled() {
		db, err = gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
		if err != nil {
			log.Warn("database unreachable, using default pricing profiles", zap.Error(err))
			db = nil
		}
	}
	if db != nil {
		profileRepo := repository.NewGormProfileRepository(db)
		startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.ProfileModel{}); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			if err := profileRepo.Seed(startupCtx); err != nil {
				log.Fatal("failed to seed pricing profiles", zap.Error(err))
			}
		}
		loaded, err := profileRepo.LoadProfiles(startupCtx)
		cancelStartup()
		switch {
		case err != nil:
			log.Warn("failed to load pricing profiles, using defaults", zap.Error(err))
		case loaded != nil:
			profiles = loaded
			log.Info("pricing profiles loaded from database")
		default:
			log.Info("pricing profile table empty, using defaults")
		}
	}

	// Geocoding/routing client, with an optional autocomplete cache.
	var geocodeOpts []geocode.Option
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, log)
		if err != nil {
			log.Warn("redis unavailable, autocomplete cache disabled", zap.Error(err))
		} else {
			defer func() { _ = redisCache.Close() }()
			geocodeOpts = append(geocodeOpts, geocode.WithCache(redisCache, cfg.AutocompleteCacheTTL))
		}
	}
	geocoder := geocode.NewClient(cfg.GeoapifyBaseURL, cfg.GeoapifyKey, cfg.UpstreamTimeout, log, geocodeOpts...)

	// Fare backend client (unconfigured means permanent local fallback).
	fareBackend := fareapi.NewClient(cfg.FareAPIBaseURL, cfg.UpstreamTimeout, log)

	// Optional analytics producer.
	var analytics application.Analytics
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, log)
		defer func() { _ = producer.Close() }()
		analytics = events.NewEstimateAnalytics(producer, log)
	}

	// Initialize application service
	estimateService := application.NewEstimateService(geocoder, fareBackend, profiles, analytics, log)

	// Initialize HTTP handler
	estimateHandler := handler.NewEstimateHandler(estimateService, geocoder)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-estimates")
	healthHandler.RegisterRoutes(router)

	// Register routes
	estimateHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-estimates...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-estimates stopped")
}
