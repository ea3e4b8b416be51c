package models

import (
	"time"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// TaskImage is one derived variant as exposed on a completed task.
type TaskImage struct {
	Resolution string `json:"resolution"`
	Path       string `json:"path"`
}

// Task is an immutable value. Transitions return a new Task and leave the
// receiver untouched; only the repository writes the durable record.
type Task struct {
	ID           string
	Status       TaskStatus
	Price        float64
	OriginalPath string
	Images       []TaskImage
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTask builds a pending task. Price and source are validated by the caller.
func NewTask(originalPath string, price float64) Task {
	now := time.Now().UTC()
	return Task{
		Status:       StatusPending,
		Price:        price,
		OriginalPath: originalPath,
		Images:       []TaskImage{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (t Task) MarkAsCompleted(images []TaskImage) Task {
	out := t
	out.Status = StatusCompleted
	out.Images = append(make([]TaskImage, 0, len(images)), images...)
	out.Error = ""
	out.UpdatedAt = time.Now().UTC()
	return out
}

func (t Task) MarkAsFailed(reason string) Task {
	out := t
	out.Status = StatusFailed
	out.Images = []TaskImage{}
	out.Error = reason
	out.UpdatedAt = time.Now().UTC()
	return out
}

func (t Task) IsPending() bool   { return t.Status == StatusPending }
func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }
func (t Task) IsFailed() bool    { return t.Status == StatusFailed }

// IsTerminal reports whether no further transition is allowed.
func (t Task) IsTerminal() bool { return t.IsCompleted() || t.IsFailed() }

// Clone returns a copy that shares no slice memory with t.
func (t Task) Clone() Task {
	out := t
	out.Images = append(make([]TaskImage, 0, len(t.Images)), t.Images...)
	return out
}
