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

	"splitHub/app/echo-server/metrics"
	"splitHub/app/echo-server/router"
	"splitHub/business/assignment"
	"splitHub/business/bandit"
	"splitHub/internal/middleware"
	psqlRepo "splitHub/internal/repository/postgres"
	redisRepo "splitHub/internal/repository/redis"
	"splitHub/internal/rest"
	"splitHub/pkg/config"
	"splitHub/pkg/database"
	redisClient "splitHub/pkg/database/redis"
	"splitHub/pkg/logger"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting allocation API", "name", cfg.App.Name, "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init repo
	experimentRepo := psqlRepo.NewExperimentRepository(db)
	statsRepo := psqlRepo.NewStatsRepository(db)
	eventRepo := psqlRepo.NewEventRepository(db)
	cfgRepo := psqlRepo.NewBanditConfigRepository(db)

	var assignmentRepo assignment.AssignmentRepository = psqlRepo.NewAssignmentRepository(db)
	if cfg.Redis.Enabled() {
		rdb, err := redisClient.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisClient.CloseRedisClient(rdb)

		assignmentRepo = redisRepo.NewAssignmentCache(rdb, assignmentRepo, cfg.Redis.AssignmentTTL)
		logger.Info("Redis assignment cache enabled", "ttl", cfg.Redis.AssignmentTTL)
	}

	// Init service
	banditDefaults := bandit.Config{
		PriorAlpha:        cfg.Bandit.PriorAlpha,
		PriorBeta:         cfg.Bandit.PriorBeta,
		UCBConfidence:     cfg.Bandit.UCBConfidence,
		Epsilon:           cfg.Bandit.Epsilon,
		EpsilonDecay:      cfg.Bandit.EpsilonDecay,
		MinBanditVisitors: cfg.Bandit.MinBanditVisitors,
		ScoreCacheTTL:     cfg.Bandit.ScoreCacheTTL,
	}
	scoreCache := bandit.NewScoreCache(banditDefaults.ScoreCacheTTL, nil)

	assignmentService := assignment.NewService(
		experimentRepo,
		assignmentRepo,
		statsRepo,
		eventRepo,
		cfgRepo,
		scoreCache,
		bandit.DefaultSource(),
		banditDefaults,
		cfg.Bandit.BestEffortTimeout,
	)

	// Init handler
	assignmentHandler := rest.NewAssignmentHandler(assignmentService, cfg.Server.RequestTimeout)
	adminHandler := rest.NewExperimentAdminHandler(assignmentService, experimentRepo, cfgRepo)

	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetAssignmentRoutes(api, assignmentHandler)
	router.SetExperimentAdminRoutes(api, adminHandler, authRequired, adminOnly)

	// expired score cache entries
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(banditDefaults.ScoreCacheTTL + time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := scoreCache.Sweep(); n > 0 {
					logger.Debug("score cache swept", "removed", n)
				}
			}
		}
	}()

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
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// let fire-and-forget counter writes land
	if err := assignmentService.Drain(ctx); err != nil {
		logger.Error("Best-effort writes not drained", "error", err)
	}

	logger.Info("Server stopped")
}
