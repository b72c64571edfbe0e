package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"connect-support/internal/config"
	"connect-support/internal/db"
	apihttp "connect-support/internal/http"
	"connect-support/internal/llm"
	"connect-support/internal/repository"
	"connect-support/internal/service"
	"connect-support/internal/storage"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	checks := map[string]apihttp.HealthCheck{}

	var questionRepo repository.QuestionRepository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		questionRepo = repository.NewPgQuestionRepository(pool)
		checks["database"] = func(ctx context.Context) error { return db.Ping(ctx, pool) }
	} else {
		logger.Warn("database not configured, serving default faq questions")
	}

	var (
		listingCache service.ListingCache
		chatLimiter  service.RateLimiter
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			listingCache = service.NewRedisListingCache(redisClient)
			if cfg.ChatRateLimit > 0 {
				chatLimiter = service.NewRedisRateLimiter(redisClient, "chat:rl:", cfg.ChatRateWindow, cfg.ChatRateLimit)
			}
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
		cancel()
	}
	if cfg.ChatRateLimit > 0 && chatLimiter == nil {
		logger.Warn("chat rate limit configured but redis unavailable, limiter disabled")
	}

	objectStore, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
	if err != nil {
		logger.Fatal("s3 client", zap.Error(err))
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, 0)
	if !jwtSvc.Enabled() {
		logger.Warn("jwt secret not configured, gateway routes are public")
	}

	backend := llm.NewHTTPClient(cfg.ChatBackendURL, nil, logger)
	chatSvc := service.NewChatService(backend, cfg.ChatTimeout, logger)
	downloadSvc := service.NewDownloadService(objectStore, cfg.BucketHostMarker(), cfg.DownloadMaxBytes, logger)
	faqSvc := service.NewFAQService(questionRepo, cfg.FAQSampleSize, logger)
	documentSvc := service.NewDocumentService(objectStore, listingCache, cfg.S3Bucket, cfg.DocumentsPrefix, cfg.DocumentsCacheTTL, logger)

	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	downloadHandler := apihttp.NewDownloadHandler(logger, downloadSvc)
	catalogHandler := apihttp.NewCatalogHandler(logger, faqSvc, documentSvc)
	healthHandler := apihttp.NewHealthHandler(logger, checks)
	router := apihttp.NewRouter(logger, apihttp.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		JWT:            jwtSvc,
		ChatLimiter:    chatLimiter,
	}, chatHandler, downloadHandler, catalogHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		// Debe superar el deadline del backend para que el 408 llegue al cliente.
		WriteTimeout: cfg.ChatTimeout + 10*time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("chat_backend", cfg.ChatBackendURL),
			zap.Duration("chat_timeout", cfg.ChatTimeout),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
