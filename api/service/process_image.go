package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"imageResizer/api/models"
	"imageResizer/api/repository"
)

var DefaultWidths = []int{1024, 800}

// ProcessImage drives a pending task to its terminal state.
type ProcessImage struct {
	tasks     repository.TaskRepository
	images    repository.ImageRepository
	processor ImageProcessor
	widths    []int
	logger    *zap.Logger
}

func NewProcessImage(
	tasks repository.TaskRepository,
	images repository.ImageRepository,
	processor ImageProcessor,
	widths []int,
	logger *zap.Logger,
) *ProcessImage {
	if widths == nil {
		widths = DefaultWidths
	}
	return &ProcessImage{
		tasks:     tasks,
		images:    images,
		processor: processor,
		widths:    append([]int(nil), widths...),
		logger:    logger,
	}
}

// Execute loads source, stores one variant per configured width and marks
// the task completed. On failure the task is marked failed when it still
// exists, and the triggering error is returned.
func (uc *ProcessImage) Execute(ctx context.Context, taskID, source string) error {
	logger := uc.logger.With(zap.String("task_id", taskID))

	if current, err := uc.tasks.FindByID(ctx, taskID); err == nil && current.IsTerminal() {
		logger.Info("Task already finished, skipping", zap.String("status", string(current.Status)))
		return nil
	}

	logger.Info("Processing task", zap.String("source", source), zap.Ints("widths", uc.widths))

	if err := uc.run(ctx, taskID, source); err != nil {
		uc.markFailed(ctx, logger, taskID, err)
		return err
	}

	logger.Info("Task completed")
	return nil
}

func (uc *ProcessImage) run(ctx context.Context, taskID, source string) error {
	src, err := uc.processor.LoadImageBuffer(ctx, source)
	if err != nil {
		return err
	}

	outputs, err := uc.processor.ProcessImage(ctx, src, uc.widths)
	if err != nil {
		return err
	}

	images := make([]models.TaskImage, 0, len(outputs))
	for _, out := range outputs {
		path, err := uc.processor.SaveImage(ctx, out)
		if err != nil {
			return err
		}

		record := models.NewImage(taskID, src.Name, src.MimeType, out.Resolution, out.Fingerprint, path)
		if _, err := uc.images.Save(ctx, record); err != nil {
			return fmt.Errorf("save image record: %w", err)
		}

		images = append(images, models.TaskImage{Resolution: out.Resolution, Path: path})
	}

	task, err := uc.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := uc.tasks.Update(ctx, task.MarkAsCompleted(images)); err != nil {
		return err
	}
	return nil
}

func (uc *ProcessImage) markFailed(ctx context.Context, logger *zap.Logger, taskID string, cause error) {
	task, err := uc.tasks.FindByID(ctx, taskID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		logger.Warn("Task vanished before failure could be recorded", zap.Error(cause))
		return
	}
	if err != nil {
		logger.Error("Failed to reload task", zap.Error(err))
		return
	}

	if _, err := uc.tasks.Update(ctx, task.MarkAsFailed(cause.Error())); err != nil {
		logger.Error("Failed to mark task as failed", zap.Error(err))
		return
	}
	logger.Warn("Task failed", zap.Error(cause))
}
