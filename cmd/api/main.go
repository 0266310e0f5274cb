package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fedeargo/agend-citas/cmd/mainconfig"
	"github.com/fedeargo/agend-citas/internal/agent"
	"github.com/fedeargo/agend-citas/internal/api/router"
	"github.com/fedeargo/agend-citas/internal/checkpoint"
	appconfig "github.com/fedeargo/agend-citas/internal/config"
	"github.com/fedeargo/agend-citas/internal/directory"
	"github.com/fedeargo/agend-citas/internal/ledger"
	"github.com/fedeargo/agend-citas/internal/observability/metrics"
	"github.com/fedeargo/agend-citas/internal/scheduling"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agend-citas API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	checkpoints := checkpoint.NewStore(dynamoClient, checkpoint.Tables{
		Checkpoints: cfg.CheckpointsTable,
		History:     cfg.CheckpointHistoryTable,
		Writes:      cfg.CheckpointWritesTable,
	}, logger)

	var locker scheduling.Locker
	if cfg.UseLocalLocks {
		locker = scheduling.NewLocalLocker()
		logger.Info("using in-process booking locks")
	} else {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		locker = scheduling.NewRedisLocker(redisClient, cfg.BookingLockTTL)
	}

	dir := directory.NewSeededStore()
	led := ledger.NewInMemoryLedger(dir)
	engine := scheduling.NewEngine(dir, led, time.Now)
	booker := scheduling.NewBooker(engine, led, locker, logger, time.Now)

	m := metrics.NewAssistantMetrics(nil)

	registry, err := agent.NewSchedulingRegistry(agent.ToolDeps{
		Directory:   dir,
		Ledger:      led,
		Engine:      engine,
		Booker:      booker,
		Metrics:     m,
		HorizonDays: cfg.HorizonDays,
		Now:         time.Now,
	})
	if err != nil {
		logger.Error("failed to build tool registry", "error", err)
		os.Exit(1)
	}

	llm, err := agent.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer llm.Close()

	assistant, err := agent.New(llm, registry, checkpoints, logger, m)
	if err != nil {
		logger.Error("failed to create agent", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:           logger,
		ChatHandler:      agent.NewHandler(assistant, logger),
		DirectoryHandler: directory.NewHandler(dir, logger),
		LedgerHandler:    ledger.NewHandler(led, logger),
		MetricsHandler:   promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
