package converter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"imageResizer/api/models"
)

// Store writes resized images below BaseDir. An absolute output path is
// written where it points. Paths are content addressed, so overwriting an
// existing file rewrites identical bytes.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save returns the forward-slash, leading-slash form of the output path.
func (s *Store) Save(_ context.Context, out models.ProcessedImage) (string, error) {
	target := out.OutputPath
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.baseDir, target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", &StorageError{Path: target, Err: err}
	}
	if err := os.WriteFile(target, out.Data, 0o644); err != nil {
		return "", &StorageError{Path: target, Err: err}
	}

	return publicPath(out.OutputPath), nil
}

func publicPath(p string) string {
	p = strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	return "/" + strings.TrimLeft(p, "/")
}
