package service

import (
	"context"

	"go.uber.org/zap"

	"imageResizer/api/models"
	apiservice "imageResizer/api/service"
	"imageResizer/worker/kafka"
	"imageResizer/worker/pool"
)

type TaskLookup interface {
	FindByID(ctx context.Context, id string) (models.Task, error)
}

// Processor turns consumed task messages into orchestrator runs on the pool.
type Processor struct {
	process *apiservice.ProcessImage
	pool    *pool.WorkerPool
	tasks   TaskLookup
	cache   apiservice.TaskCache
	logger  *zap.Logger
}

// NewProcessor builds the handler. cache may be nil; when set, finished
// tasks are written through so the API serves them without a database hit.
func NewProcessor(process *apiservice.ProcessImage, p *pool.WorkerPool, tasks TaskLookup, cache apiservice.TaskCache, logger *zap.Logger) *Processor {
	return &Processor{
		process: process,
		pool:    p,
		tasks:   tasks,
		cache:   cache,
		logger:  logger,
	}
}

// Handle queues msg and returns without waiting for the run.
func (p *Processor) Handle(ctx context.Context, msg *kafka.TaskMessage) error {
	logger := p.logger.With(
		zap.String("task_id", msg.TaskID),
		zap.String("trace_id", msg.TraceID),
	)
	logger.Info("Task received")

	p.pool.Submit(ctx, func(ctx context.Context) {
		if err := p.process.Execute(ctx, msg.TaskID, msg.Source); err != nil {
			logger.Error("Task processing failed", zap.Error(err))
		}
		p.warmCache(ctx, logger, msg.TaskID)
	})
	return nil
}

func (p *Processor) warmCache(ctx context.Context, logger *zap.Logger, taskID string) {
	if p.cache == nil {
		return
	}
	task, err := p.tasks.FindByID(ctx, taskID)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, task); err != nil {
		logger.Warn("Failed to cache finished task", zap.Error(err))
	}
}
