package validation

import "errors"

var (
	ErrEmptySource   = errors.New("source is required")
	ErrInvalidSource = errors.New("invalid URL or path format")
	ErrEmptyTaskID   = errors.New("task id is required")
	ErrInvalidTaskID = errors.New("invalid taskId format")
)
