package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"imageResizer/api/database"
	"imageResizer/api/models"
)

const (
	taskKeyPrefix = "task:"
	taskTTL       = 10 * time.Minute
)

// TaskCache keeps terminal tasks only. A terminal task never changes again,
// so a cached entry can not go stale; pending tasks always hit storage.
type TaskCache struct {
	cache *database.Cache
}

func NewTaskCache(cache *database.Cache) *TaskCache {
	return &TaskCache{cache: cache}
}

type cachedTask struct {
	ID           string             `json:"id"`
	Status       models.TaskStatus  `json:"status"`
	Price        float64            `json:"price"`
	OriginalPath string             `json:"original_path"`
	Images       []models.TaskImage `json:"images"`
	Error        string             `json:"error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Get returns database.ErrCacheMiss when nothing is cached for taskID.
func (tc *TaskCache) Get(ctx context.Context, taskID string) (*models.Task, error) {
	data, err := tc.cache.Get(ctx, taskKey(taskID))
	if err != nil {
		return nil, err
	}

	var ct cachedTask
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("decode cached task: %w", err)
	}

	task := models.Task(ct)
	if task.Images == nil {
		task.Images = []models.TaskImage{}
	}
	return &task, nil
}

// Set stores task if it is terminal and is a no-op otherwise.
func (tc *TaskCache) Set(ctx context.Context, task models.Task) error {
	if !task.IsTerminal() {
		return nil
	}

	data, err := json.Marshal(cachedTask(task))
	if err != nil {
		return err
	}
	return tc.cache.Set(ctx, taskKey(task.ID), data, taskTTL)
}

func (tc *TaskCache) Delete(ctx context.Context, taskID string) error {
	return tc.cache.Del(ctx, taskKey(taskID))
}

func taskKey(taskID string) string {
	return fmt.Sprintf("%s%s", taskKeyPrefix, taskID)
}
