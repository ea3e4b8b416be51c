package service

import (
	"context"
	"fmt"

	"imageResizer/api/models"
	"imageResizer/api/repository"
	"imageResizer/api/validation"
)

type CreateTask struct {
	tasks  repository.TaskRepository
	pricer PriceCalculator
}

func NewCreateTask(tasks repository.TaskRepository, pricer PriceCalculator) *CreateTask {
	return &CreateTask{tasks: tasks, pricer: pricer}
}

// Execute validates source, prices the task and persists it as pending.
// Invalid input returns an error wrapping ErrValidation and touches nothing.
func (uc *CreateTask) Execute(ctx context.Context, source string) (models.Task, error) {
	if err := validation.ValidateSource(source); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	task := models.NewTask(source, uc.pricer.Calculate())

	saved, err := uc.tasks.Save(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("save task: %w", err)
	}
	return saved, nil
}
