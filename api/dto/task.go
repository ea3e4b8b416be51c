package dto

import "imageResizer/api/models"

type CreateTaskRequest struct {
	Source string `json:"source" binding:"required"`
}

type TaskImageResponse struct {
	Resolution string `json:"resolution"`
	Path       string `json:"path"`
}

// TaskResponse carries images only for completed tasks and error only for
// failed ones.
type TaskResponse struct {
	TaskID string               `json:"taskId"`
	Status string               `json:"status"`
	Price  float64              `json:"price"`
	Images *[]TaskImageResponse `json:"images,omitempty"`
	Error  string               `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func FromTask(task models.Task) *TaskResponse {
	resp := &TaskResponse{
		TaskID: task.ID,
		Status: string(task.Status),
		Price:  task.Price,
	}

	if task.IsCompleted() {
		images := make([]TaskImageResponse, 0, len(task.Images))
		for _, img := range task.Images {
			images = append(images, TaskImageResponse{Resolution: img.Resolution, Path: img.Path})
		}
		resp.Images = &images
	}
	if task.IsFailed() {
		resp.Error = task.Error
	}

	return resp
}
