package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/graceful"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goal-roadmap/internal/cache"
	"goal-roadmap/internal/config"
	"goal-roadmap/internal/db"
	apihttp "goal-roadmap/internal/http"
	"goal-roadmap/internal/llm"
	"goal-roadmap/internal/repository"
	"goal-roadmap/internal/service"
	"goal-roadmap/internal/sources"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	roadmapRepo := repository.NewPgRoadmapRepository(pool)
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger).
		WithSystemPrompt(service.RoadmapSystemPrompt)

	var topicCache cache.TopicCache = cache.NewMemoryTopicCache(cfg.RoadmapCacheTTL)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory cache", zap.Error(err))
		} else {
			topicCache = cache.NewRedisTopicCache(redisClient, cfg.RoadmapCacheTTL)
		}
		cancel()
	}

	var finder service.SourceFinder
	if cfg.SourcesEnabled {
		wiki := sources.NewWikipediaClient(logger, cfg.WikipediaAPIURL, cfg.WikipediaDelay)
		finder = sources.NewFinder(logger, wiki)
	}

	roadmapSvc := service.NewRoadmapService(logger, llmClient, roadmapRepo, topicCache, finder).
		WithSourceBudget(cfg.SourcesTimeout)
	roadmapHandler := apihttp.NewRoadmapHandler(logger, roadmapSvc)
	router := apihttp.NewRouter(logger, roadmapHandler, cfg.CORSOrigins)

	server, err := graceful.New(router, graceful.WithAddr(":"+cfg.HTTPPort))
	if err != nil {
		logger.Fatal("server init", zap.Error(err))
	}
	defer server.Close()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
