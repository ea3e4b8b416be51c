package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"imageResizer/api/cache"
	"imageResizer/api/config"
	"imageResizer/api/database"
	"imageResizer/api/repository"
	apiservice "imageResizer/api/service"
	"imageResizer/worker/converter"
	"imageResizer/worker/kafka"
	"imageResizer/worker/pool"
	"imageResizer/worker/service"

	workerconfig "imageResizer/worker/config"
)

func main() {
	cfg, err := workerconfig.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.IsDevelopment())
	defer logger.Sync()

	logger.Info("Worker Service starting",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group_id", cfg.Kafka.GroupID),
		zap.Int("workers", cfg.WorkerCount),
	)
	if cfg.Storage.Driver == config.StorageMemory {
		logger.Warn("In-memory storage is not shared with the API process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer stores.Close()

	var taskCache apiservice.TaskCache
	if cfg.RedisAddr != "" {
		redisCache, err := database.ConnectCache(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		taskCache = cache.NewTaskCache(redisCache)
	}

	process := apiservice.NewProcessImage(
		stores.Tasks,
		stores.Images,
		converter.NewProcessorFromConfig(cfg.Processing, logger),
		cfg.Processing.Sizes,
		logger,
	)
	workers := pool.NewWorkerPool(cfg.WorkerCount)
	processor := service.NewProcessor(process, workers, stores.Tasks, taskCache, logger)

	consumer, err := kafka.NewConsumer(cfg.Kafka.BrokerList(), cfg.Kafka.GroupID, logger)
	if err != nil {
		logger.Fatal("Failed to create kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	// Runs keep going after shutdown starts so in-flight tasks can finish.
	if err := consumer.Consume(ctx, cfg.Kafka.Topic, func(_ context.Context, msg *kafka.TaskMessage) error {
		return processor.Handle(context.WithoutCancel(ctx), msg)
	}); err != nil {
		logger.Error("Consumer stopped", zap.Error(err))
	}

	logger.Info("Waiting for in-flight tasks")
	workers.Wait()
	logger.Info("Worker Service stopped")
}

func newLogger(development bool) *zap.Logger {
	if development {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
