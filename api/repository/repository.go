package repository

import (
	"context"
	"errors"

	"imageResizer/api/models"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskNotPending = errors.New("task is no longer pending")
	ErrImageNotFound  = errors.New("image not found")
)

// TaskRepository persists tasks. Implementations must be safe for concurrent use.
//
// Update is a conditional write: it succeeds only while the stored task is
// still pending, so a task reaches at most one terminal state.
type TaskRepository interface {
	Save(ctx context.Context, task models.Task) (models.Task, error)
	FindByID(ctx context.Context, id string) (models.Task, error)
	Update(ctx context.Context, task models.Task) (models.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]models.Task, error)
}

// ImageRepository persists derived image records.
type ImageRepository interface {
	Save(ctx context.Context, image models.Image) (models.Image, error)
	FindByID(ctx context.Context, id string) (models.Image, error)
	FindByTaskID(ctx context.Context, taskID string) ([]models.Image, error)
	DeleteByTaskID(ctx context.Context, taskID string) (int64, error)
}
