package models

import "time"

// Image is the bookkeeping record of one persisted derived variant.
// TaskID is a weak reference; images are not owned by the task row.
type Image struct {
	ID          string
	TaskID      string
	Name        string
	MimeType    string
	Resolution  string
	Fingerprint string
	Path        string
	CreatedAt   time.Time
}

func NewImage(taskID, name, mimeType, resolution, fingerprint, path string) Image {
	return Image{
		TaskID:      taskID,
		Name:        name,
		MimeType:    mimeType,
		Resolution:  resolution,
		Fingerprint: fingerprint,
		Path:        path,
		CreatedAt:   time.Now().UTC(),
	}
}

// ImageSource is a loaded source image ready for transformation.
type ImageSource struct {
	Data     []byte
	Name     string
	Ext      string
	MimeType string
}

// ProcessedImage is one resized output, not yet written to storage.
type ProcessedImage struct {
	Data        []byte
	Resolution  string
	Fingerprint string
	Format      string
	OutputPath  string
}
