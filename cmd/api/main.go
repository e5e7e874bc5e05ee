// Package main API 服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sitecraft-api/internal/application/generation"
	"sitecraft-api/internal/config"
	"sitecraft-api/internal/infrastructure/llm"
	"sitecraft-api/internal/infrastructure/persistence/postgres"
	"sitecraft-api/internal/infrastructure/persistence/redis"
	"sitecraft-api/internal/interfaces/http/handler"
	"sitecraft-api/internal/interfaces/http/middleware"
	"sitecraft-api/internal/interfaces/http/router"
	"sitecraft-api/pkg/logger"
	"sitecraft-api/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 数据层
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect postgres", err)
	}
	defer pgClient.Close()

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", err)
	}
	defer redisClient.Close()

	projectRepo := postgres.NewProjectRepository(pgClient)
	historyRepo := postgres.NewGenerationAttemptRepository(pgClient)
	userRepo := postgres.NewUserRepository(pgClient)
	txManager := postgres.NewTxManager(pgClient)

	cache := redis.NewCache(redisClient)
	historyCache := redis.NewHistoryCache(cache, historyRepo)
	rateLimiter := redis.NewRateLimiter(redisClient)

	// 生成客户端与工作流
	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		logger.Fatal(ctx, "failed to init llm client", err)
	}
	generationService := generation.NewService(projectRepo, historyRepo, llmClient, historyCache)

	// HTTP 层
	authCfg := middleware.AuthConfig{
		Secret: cfg.Security.JWT.Secret,
		Issuer: cfg.Security.JWT.Issuer,
	}
	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(pgClient, redisClient),
		Auth:       handler.NewAuthHandler(authCfg, userRepo),
		Project:    handler.NewProjectHandler(projectRepo, txManager),
		Generation: handler.NewGenerationHandler(generationService, projectRepo, historyCache),
	}

	r := router.New(cfg, handlers, rateLimiter)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
