package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"imageResizer/api/models"
	"imageResizer/api/repository"
	"imageResizer/api/validation"
)

type GetTask struct {
	tasks  repository.TaskRepository
	cache  TaskCache
	logger *zap.Logger
}

// NewGetTask builds the lookup use case. cache may be nil.
func NewGetTask(tasks repository.TaskRepository, cache TaskCache, logger *zap.Logger) *GetTask {
	return &GetTask{tasks: tasks, cache: cache, logger: logger}
}

// Execute returns (nil, nil) when no task matches taskID.
func (uc *GetTask) Execute(ctx context.Context, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, validation.ErrEmptyTaskID)
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, taskID); err == nil {
			return cached, nil
		}
	}

	task, err := uc.tasks.FindByID(ctx, taskID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, task); err != nil {
			uc.logger.Warn("Failed to cache task",
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
		}
	}

	return &task, nil
}
