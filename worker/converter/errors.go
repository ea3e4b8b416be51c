package converter

import "fmt"

// FetchError is returned when a remote source answers with a non-2xx status.
type FetchError struct {
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch image: %s", e.Status)
}

// SourceTooLargeError is returned when a source exceeds the loader's limit.
type SourceTooLargeError struct {
	Limit int64
}

func (e *SourceTooLargeError) Error() string {
	return fmt.Sprintf("image exceeds %d bytes", e.Limit)
}

// TransformError wraps a decode, resize or encode failure.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("image processing failed: %v", e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// StorageError wraps a failure to write a resized image.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to save image %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
