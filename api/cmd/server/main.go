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
	"go.uber.org/zap"

	"imageResizer/api/cache"
	"imageResizer/api/config"
	"imageResizer/api/database"
	"imageResizer/api/handlers"
	"imageResizer/api/kafka"
	"imageResizer/api/middleware"
	"imageResizer/api/repository"
	"imageResizer/api/service"
	"imageResizer/worker/converter"
	"imageResizer/worker/pool"
)

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.IsDevelopment())
	defer logger.Sync()

	logger.Info("API Service starting",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("dispatch", cfg.DispatchMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer stores.Close()

	var taskCache service.TaskCache
	if cfg.RedisAddr != "" {
		redisCache, err := database.ConnectCache(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		taskCache = cache.NewTaskCache(redisCache)
	}

	workers := pool.NewWorkerPool(cfg.WorkerCount)

	var dispatcher service.Dispatcher
	switch cfg.DispatchMode {
	case config.DispatchKafka:
		producer, err := kafka.NewProducer(cfg.Kafka.BrokerList())
		if err != nil {
			logger.Fatal("Failed to create kafka producer", zap.Error(err))
		}
		defer producer.Close()
		dispatcher = service.NewKafkaDispatcher(producer, cfg.Kafka.Topic)
	default:
		process := service.NewProcessImage(
			stores.Tasks,
			stores.Images,
			converter.NewProcessorFromConfig(cfg.Processing, logger),
			cfg.Processing.Sizes,
			logger,
		)
		dispatcher = service.NewPoolDispatcher(workers, process, logger)
	}

	taskService := service.NewTaskService(
		service.NewCreateTask(stores.Tasks, service.NewRandomPriceCalculator(cfg.Price.Min, cfg.Price.Max)),
		service.NewGetTask(stores.Tasks, taskCache, logger),
		stores.Tasks,
		dispatcher,
		logger,
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.TraceID(), middleware.Logging(logger), middleware.Recovery(logger))
	handlers.RegisterRoutes(r, handlers.NewTaskHandler(taskService, logger, cfg.IsDevelopment()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	workers.Wait()
	logger.Info("API Service stopped")
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
