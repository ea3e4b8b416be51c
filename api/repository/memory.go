package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"imageResizer/api/models"
)

type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: make(map[string]models.Task)}
}

func (r *MemoryTaskRepo) Save(_ context.Context, task models.Task) (models.Task, error) {
	saved := task.Clone()
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[saved.ID] = saved
	return saved.Clone(), nil
}

func (r *MemoryTaskRepo) FindByID(_ context.Context, id string) (models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, task models.Task) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	if !stored.IsPending() {
		return models.Task{}, ErrTaskNotPending
	}
	r.tasks[task.ID] = task.Clone()
	return task.Clone(), nil
}

func (r *MemoryTaskRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *MemoryTaskRepo) FindAll(_ context.Context) ([]models.Task, error) {
	r.mu.RLock()
	out := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type MemoryImageRepo struct {
	mu     sync.RWMutex
	images map[string]models.Image
	order  []string
}

func NewMemoryImageRepo() *MemoryImageRepo {
	return &MemoryImageRepo{images: make(map[string]models.Image)}
}

func (r *MemoryImageRepo) Save(_ context.Context, image models.Image) (models.Image, error) {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.images[image.ID]; !exists {
		r.order = append(r.order, image.ID)
	}
	r.images[image.ID] = image
	return image, nil
}

func (r *MemoryImageRepo) FindByID(_ context.Context, id string) (models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	image, ok := r.images[id]
	if !ok {
		return models.Image{}, ErrImageNotFound
	}
	return image, nil
}

func (r *MemoryImageRepo) FindByTaskID(_ context.Context, taskID string) ([]models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Image
	for _, id := range r.order {
		if img := r.images[id]; img.TaskID == taskID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *MemoryImageRepo) DeleteByTaskID(_ context.Context, taskID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	kept := r.order[:0]
	for _, id := range r.order {
		if r.images[id].TaskID == taskID {
			delete(r.images, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return deleted, nil
}
