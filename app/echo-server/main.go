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

	"behaviorOpt/app/echo-server/router"
	"behaviorOpt/business/auth"
	"behaviorOpt/business/experiment"
	"behaviorOpt/business/project"
	"behaviorOpt/business/tracking"
	"behaviorOpt/internal/middleware"
	psqlRepo "behaviorOpt/internal/repository/postgres"
	redisRepo "behaviorOpt/internal/repository/redis"
	"behaviorOpt/internal/rest"
	"behaviorOpt/pkg/config"
	"behaviorOpt/pkg/database"
	redisdb "behaviorOpt/pkg/database/redis"
	"behaviorOpt/pkg/logger"
	"behaviorOpt/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting behaviorOpt", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	metrics.Init()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	organizationRepo := psqlRepo.NewOrganizationRepository(db)
	refreshTokenRepo := redisRepo.NewRefreshTokenRepository(redisClient)
	projectRepo := psqlRepo.NewProjectRepository(db)
	experimentRepo := psqlRepo.NewExperimentRepository(db)
	eventRepo := psqlRepo.NewAnalyticsEventRepository(db)
	resultsRepo := psqlRepo.NewExperimentResultsRepository(db)
	exposureRepo := redisRepo.NewExposureRepository(redisClient, cfg.Tracking.ExposureTTL)

	// Init service
	authService := auth.NewAuthService(userRepo, organizationRepo, refreshTokenRepo, validator.New(), auth.TokenConfig{
		AccessSecret:  cfg.JWT.SecretKey,
		RefreshSecret: cfg.JWT.RefreshSecretKey,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	projectService := project.NewProjectService(projectRepo)
	experimentService := experiment.NewExperimentService(experimentRepo, projectRepo, resultsRepo)
	trackingService := tracking.NewTrackingService(projectRepo, experimentRepo, eventRepo, resultsRepo, exposureRepo, cfg.Tracking.MaxBatchSize)

	// Init handler
	authHandler := rest.NewAuthHandler(authService)
	projectHandler := rest.NewProjectHandler(projectService)
	experimentHandler := rest.NewExperimentHandler(experimentService)
	trackingHandler := rest.NewTrackingHandler(trackingService)
	healthHandler := rest.NewHealthHandler(cfg.App.Version, map[string]rest.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// tracking endpoints are public, so they are throttled per client IP
	trackingLimiter := echomiddleware.RateLimiter(
		echomiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Tracking.RateLimitPerSecond)),
	)
	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, authHandler, authRequired)
	router.SetupTrackingRoutes(api, trackingHandler, trackingLimiter)
	router.SetupProjectRoutes(api, projectHandler, authRequired)
	router.SetupExperimentRoutes(api, experimentHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
