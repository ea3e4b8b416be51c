package service

import (
	"context"
	"errors"

	"imageResizer/api/models"
)

// ErrValidation marks input rejected before any I/O.
var ErrValidation = errors.New("validation error")

// ImageProcessor loads a source, derives resized variants and stores them.
type ImageProcessor interface {
	LoadImageBuffer(ctx context.Context, source string) (models.ImageSource, error)
	ProcessImage(ctx context.Context, src models.ImageSource, widths []int) ([]models.ProcessedImage, error)
	SaveImage(ctx context.Context, out models.ProcessedImage) (string, error)
}

type PriceCalculator interface {
	Calculate() float64
}

// TaskCache is the read-through cache consulted by GetTask.
type TaskCache interface {
	Get(ctx context.Context, taskID string) (*models.Task, error)
	Set(ctx context.Context, task models.Task) error
}

// Dispatcher schedules a processing run for a freshly created task and
// returns without waiting for it.
type Dispatcher interface {
	Dispatch(ctx context.Context, task models.Task, traceID string) error
}
