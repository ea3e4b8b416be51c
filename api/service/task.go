package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"imageResizer/api/dto"
	"imageResizer/api/models"
	"imageResizer/api/repository"
)

// TaskService is the HTTP-facing facade: it creates tasks, schedules their
// processing and answers lookups.
type TaskService struct {
	create     *CreateTask
	get        *GetTask
	tasks      repository.TaskRepository
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewTaskService(create *CreateTask, get *GetTask, tasks repository.TaskRepository, dispatcher Dispatcher, logger *zap.Logger) *TaskService {
	return &TaskService{
		create:     create,
		get:        get,
		tasks:      tasks,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, traceID string, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.create.Execute(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task created",
		zap.String("trace_id", traceID),
		zap.String("task_id", task.ID),
		zap.Float64("price", task.Price),
	)

	if err := s.dispatcher.Dispatch(ctx, task, traceID); err != nil {
		s.abandon(ctx, task, err)
		return nil, fmt.Errorf("dispatch task: %w", err)
	}

	return dto.FromTask(task), nil
}

// GetTask returns repository.ErrTaskNotFound when no task matches.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	task, err := s.get.Execute(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, repository.ErrTaskNotFound
	}
	return dto.FromTask(*task), nil
}

// abandon fails a task that could not be scheduled so it does not stay
// pending forever.
func (s *TaskService) abandon(ctx context.Context, task models.Task, cause error) {
	s.logger.Error("Failed to dispatch task",
		zap.String("task_id", task.ID),
		zap.Error(cause),
	)
	if _, err := s.tasks.Update(ctx, task.MarkAsFailed(cause.Error())); err != nil {
		s.logger.Error("Failed to mark undispatched task as failed",
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
	}
}
