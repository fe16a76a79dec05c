package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"birdsong-quiz/internal/adapter"
	"birdsong-quiz/internal/cache"
	"birdsong-quiz/internal/config"
	"birdsong-quiz/internal/database"
	"birdsong-quiz/internal/domain"
	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/repository"
	"birdsong-quiz/internal/service"

	"go.uber.org/zap"
)

// rescore re-evaluates the answers of every scored quiz against the current species names.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewSQLXOracleDB(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Cached results of rescored quizzes are dropped; without Redis they simply expire.
	var resultStore domain.Cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		l.Warn("Redis unavailable, cached quiz results will not be invalidated", zap.Error(err))
	} else {
		defer redisClient.Close()
		resultStore = adapter.NewRedisCacheAdapter(redisClient)
	}

	quizService := service.NewQuizService(
		nil,
		nil,
		repository.NewQuizDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
		nil,
		service.NewQuizResultCache(resultStore, cfg.Quiz.ResultCacheTTL),
		cfg.Quiz,
	)

	start := time.Now()
	report, err := quizService.RescoreQuizzes(ctx)
	fields := []zap.Field{zap.Duration("duration", time.Since(start))}
	if report != nil {
		fields = append(fields,
			zap.Int("quizzes", report.Quizzes),
			zap.Int("quizzes_rescored", report.QuizzesRescored),
			zap.Int("answers_changed", report.AnswersChanged),
			zap.Int("frozen_answers", report.FrozenAnswers),
		)
		if len(report.StaleResults) > 0 {
			l.Warn("Cached results could not be invalidated; they expire with the cache TTL",
				zap.Strings("quiz_ids", report.StaleResults),
				zap.Duration("ttl", cfg.Quiz.ResultCacheTTL))
		}
	}
	if err != nil {
		l.Error("Rescore stopped", append(fields, zap.Error(err))...)
		os.Exit(1)
	}
	l.Info("Rescore finished", fields...)
}
