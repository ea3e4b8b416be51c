package service

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	"imageResizer/api/models"
	"imageResizer/api/repository"
)

type fixedPrice float64

func (p fixedPrice) Calculate() float64 { return float64(p) }

type mockProcessor struct {
	loadFunc    func(ctx context.Context, source string) (models.ImageSource, error)
	processFunc func(ctx context.Context, src models.ImageSource, widths []int) ([]models.ProcessedImage, error)
	saveFunc    func(ctx context.Context, out models.ProcessedImage) (string, error)
	loads       atomic.Int32
}

func (m *mockProcessor) LoadImageBuffer(ctx context.Context, source string) (models.ImageSource, error) {
	m.loads.Add(1)
	if m.loadFunc != nil {
		return m.loadFunc(ctx, source)
	}
	return models.ImageSource{Data: []byte("source"), Name: "photo", Ext: ".jpg", MimeType: "image/jpeg"}, nil
}

func (m *mockProcessor) ProcessImage(ctx context.Context, src models.ImageSource, widths []int) ([]models.ProcessedImage, error) {
	if m.processFunc != nil {
		return m.processFunc(ctx, src, widths)
	}
	outputs := make([]models.ProcessedImage, 0, len(widths))
	for _, w := range widths {
		res := strconv.Itoa(w)
		fp := "fp" + res
		outputs = append(outputs, models.ProcessedImage{
			Data:        []byte(res),
			Resolution:  res,
			Fingerprint: fp,
			Format:      "jpeg",
			OutputPath:  "output/" + src.Name + "/" + res + "/" + fp + ".jpg",
		})
	}
	return outputs, nil
}

func (m *mockProcessor) SaveImage(ctx context.Context, out models.ProcessedImage) (string, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, out)
	}
	return "/" + out.OutputPath, nil
}

func seedPendingTask(t *testing.T, tasks repository.TaskRepository, source string) models.Task {
	t.Helper()
	task, err := tasks.Save(context.Background(), models.NewTask(source, 12.5))
	if err != nil {
		t.Fatalf("Failed to seed task: %v", err)
	}
	return task
}

func mustFindTask(t *testing.T, tasks repository.TaskRepository, id string) models.Task {
	t.Helper()
	task, err := tasks.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to find task %s: %v", id, err)
	}
	return task
}
