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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wastenot/service-pickup/internal/application"
	"github.com/wastenot/service-pickup/internal/config"
	"github.com/wastenot/service-pickup/internal/events/consumer"
	"github.com/wastenot/service-pickup/internal/geocode"
	"github.com/wastenot/service-pickup/internal/handler"
	"github.com/wastenot/service-pickup/internal/platform/auth"
	"github.com/wastenot/service-pickup/internal/platform/database"
	"github.com/wastenot/service-pickup/internal/platform/health"
	"github.com/wastenot/service-pickup/internal/platform/kafka"
	"github.com/wastenot/service-pickup/internal/platform/logger"
	"github.com/wastenot/service-pickup/internal/platform/middleware"
	"github.com/wastenot/service-pickup/internal/repository"
	"github.com/wastenot/service-pickup/internal/routeplanner"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-pickup")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-pickup",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.PickupModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		dbURL := cfg.DBConfig.DatabaseURL()
		if err := database.RunMigrations(dbURL, "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTTL,
		cfg.JWTConfig.RefreshTTL,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize geocoder: Mapbox behind a Redis cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer func() { _ = redisClient.Close() }()

	mapboxClient := geocode.NewMapboxClient(cfg.MapboxConfig.BaseURL, cfg.MapboxConfig.APIKey, log)
	geocoder := geocode.NewCachedGeocoder(mapboxClient, redisClient, cfg.RedisConfig.CacheTTL, log)

	// Initialize route planner client
	plannerClient := routeplanner.NewHTTPClient(cfg.RoutePlannerConfig.BaseURL, log)

	// Initialize repository
	pickupRepo := repository.NewGormPickupRepository(db)

	// Initialize application services
	pickupService := application.NewPickupService(
		pickupRepo,
		geocoder,
		kafkaProducer,
		log,
	)
	routeService := application.NewRouteService(
		pickupRepo,
		geocoder,
		plannerClient,
		kafkaProducer,
		log,
	)

	// Initialize and start route event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "pickup-service"
	routeConsumer := consumer.NewRouteEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		pickupService,
		log,
	)
	defer func() { _ = routeConsumer.Close() }()

	go func() {
		log.Info("starting route event consumer")
		if err := routeConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("route event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	pickupHandler := handler.NewPickupHandler(pickupService)
	routeHandler := handler.NewRouteHandler(routeService)
	adminHandler := handler.NewAdminPickupHandler(pickupService)
	echoHandler := handler.NewEchoHandler()

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
	healthHandler := health.NewHandler(db, "service-pickup")
	healthHandler.RegisterRoutes(router)

	// Register routes
	pickupHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	routeHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	echoHandler.RegisterRoutes(&router.RouterGroup)

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

	log.Info("shutting down service-pickup...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-pickup stopped")
}
