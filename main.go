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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"growup-backend/config"
	"growup-backend/database"
	"growup-backend/handlers"
	"growup-backend/logging"
	"growup-backend/middleware"
	"growup-backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment")
	}
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.IsRelease(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.SkipAuth {
		logger.Warn("SKIP_AUTH is enabled: admin routes are open")
	}

	store, err := database.NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoConnectTimeout)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	limiter := loginLimiter(cfg, logger)
	svc := services.New(store, cfg, logger)
	router := handlers.NewRouter(handlers.New(svc, cfg, logger), store, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		logger.Error("failed to close MongoDB", zap.Error(err))
	}
}

// loginLimiter shares attempts through Redis when REDIS_URL is set and falls
// back to an in-process window otherwise.
func loginLimiter(cfg *config.Config, logger *zap.Logger) middleware.Limiter {
	if cfg.RedisURL == "" {
		return middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := middleware.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, using in-process rate limiting", zap.Error(err))
		return middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	return middleware.NewRedisLimiter(client, cfg.LoginRateLimit, cfg.LoginRateWindow)
}
