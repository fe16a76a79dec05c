// @title Birdsong Quiz API
// @version 1.0
// @description Identify birds by their songs. Quizzes are built from regional observations and xeno-canto recordings.
// @license.name MIT
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "birdsong-quiz/cmd/api/docs"
	"birdsong-quiz/internal/adapter"
	"birdsong-quiz/internal/cache"
	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/database"
	"birdsong-quiz/internal/handler"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"
	"birdsong-quiz/internal/middleware"
	"birdsong-quiz/internal/repository"
	"birdsong-quiz/internal/service"
	"birdsong-quiz/internal/validation"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		appLogger.Fatal("JWT secret is not configured (auth.jwt_secret or JWT_SECRET)")
	}

	ctx := context.Background()

	db, err := database.NewSQLXOracleDB(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	appMetrics, err := metrics.New()
	if err != nil {
		appLogger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Repositories
	regionRepo := repository.NewRegionDatabaseAdapter(db)
	speciesRepo := repository.NewSpeciesDatabaseAdapter(db)
	recordingRepo := repository.NewRecordingDatabaseAdapter(db)
	observationRepo := repository.NewObservationDatabaseAdapter(db)
	quizRepo := repository.NewQuizDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	regionService := service.NewRegionService(regionRepo)
	selector := service.NewSpeciesSelector(regionRepo, speciesRepo)
	sampler := service.NewRecordingSampler(recordingRepo)
	sessions := service.NewSessionStore(cacheAdapter, cfg.Quiz.SessionTTL)
	resultCache := service.NewQuizResultCache(cacheAdapter, cfg.Quiz.ResultCacheTTL)
	quizService := service.NewQuizService(selector, sampler, quizRepo, txManager, sessions, resultCache, cfg.Quiz)
	contributionService := service.NewContributionService(regionRepo, observationRepo, txManager)
	authService := service.NewAuthService(cfg.Auth)

	validator := validation.NewValidator()
	routes := &handler.Routes{
		Regions:    handler.NewRegionHandler(regionService, selector),
		Quizzes:    handler.NewQuizHandler(quizService, validator, appMetrics),
		Contribute: handler.NewContributeHandler(contributionService, validator),
		Auth:       authService,
		Validation: middleware.NewValidationMiddleware(validator),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1024 * 1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(middleware.Metrics(appMetrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(appMetrics.Registry(), promhttp.HandlerOpts{})))
	app.Get("/swagger/*", swagger.HandlerDefault)
	routes.Register(app.Group("/api"))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
