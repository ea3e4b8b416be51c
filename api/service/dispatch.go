package service

import (
	"context"

	"go.uber.org/zap"

	"imageResizer/api/kafka"
	"imageResizer/api/models"
	"imageResizer/worker/pool"
)

// PoolDispatcher runs the orchestrator in-process on a bounded pool.
type PoolDispatcher struct {
	pool    *pool.WorkerPool
	process *ProcessImage
	logger  *zap.Logger
}

func NewPoolDispatcher(p *pool.WorkerPool, process *ProcessImage, logger *zap.Logger) *PoolDispatcher {
	return &PoolDispatcher{pool: p, process: process, logger: logger}
}

// Dispatch detaches the run from ctx's cancellation so that it outlives the
// request that created the task.
func (d *PoolDispatcher) Dispatch(ctx context.Context, task models.Task, traceID string) error {
	runCtx := context.WithoutCancel(ctx)
	d.pool.Submit(runCtx, func(ctx context.Context) {
		if err := d.process.Execute(ctx, task.ID, task.OriginalPath); err != nil {
			d.logger.Error("Background processing failed",
				zap.String("task_id", task.ID),
				zap.String("trace_id", traceID),
				zap.Error(err),
			)
		}
	})
	return nil
}

// KafkaDispatcher hands the task to the worker process through Kafka.
type KafkaDispatcher struct {
	producer kafka.Producer
	topic    string
}

func NewKafkaDispatcher(producer kafka.Producer, topic string) *KafkaDispatcher {
	if topic == "" {
		topic = kafka.DefaultTopic
	}
	return &KafkaDispatcher{producer: producer, topic: topic}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, task models.Task, traceID string) error {
	return d.producer.SendTaskMessage(ctx, d.topic, &kafka.TaskMessage{
		TaskID:  task.ID,
		TraceID: traceID,
		Source:  task.OriginalPath,
	})
}
