package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openclass-labs/exam-engine/internal/cache"
	"github.com/openclass-labs/exam-engine/internal/config"
	"github.com/openclass-labs/exam-engine/internal/enrollment"
	"github.com/openclass-labs/exam-engine/internal/handlers"
	"github.com/openclass-labs/exam-engine/internal/identity"
	"github.com/openclass-labs/exam-engine/internal/models"
	"github.com/openclass-labs/exam-engine/internal/repositories/postgres"
	"github.com/openclass-labs/exam-engine/internal/services"
	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/openclass-labs/exam-engine/internal/validator"
	"github.com/openclass-labs/exam-engine/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Test{}, &models.Question{}, &models.Result{}); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, logger)

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	v := validator.New()

	roster := enrollment.NewCachedProvider(
		enrollment.NewHTTPProvider(cfg.CourseServiceURL),
		cacheService,
		logger,
	)

	verifier := identity.NewCasdoorVerifier(cfg.Casdoor)

	sessionService := services.NewSessionService(repo, roster, logger)
	resultService := services.NewResultService(repo, publisher, logger, v)
	leaderboardService := services.NewLeaderboardService(repo, roster, logger)
	testService := services.NewTestService(repo, publisher, logger, v)
	exportService := services.NewExportService(leaderboardService, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(
		sessionService,
		resultService,
		leaderboardService,
		testService,
		exportService,
		verifier,
		logger,
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting exam engine", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
