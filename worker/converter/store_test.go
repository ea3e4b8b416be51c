package converter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"imageResizer/api/models"
)

func TestStore_Save(t *testing.T) {
	base := t.TempDir()
	store := NewStore(base)
	out := models.ProcessedImage{
		Data:       []byte("resized"),
		OutputPath: filepath.Join("output", "photo", "800", "abc.jpg"),
	}

	publicPath, err := store.Save(context.Background(), out)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if publicPath != "/output/photo/800/abc.jpg" {
		t.Errorf("Expected /output/photo/800/abc.jpg, got %s", publicPath)
	}

	written, err := os.ReadFile(filepath.Join(base, out.OutputPath))
	if err != nil {
		t.Fatalf("Expected file on disk: %v", err)
	}
	if !bytes.Equal(written, out.Data) {
		t.Errorf("Written bytes differ from output data")
	}

	// Saving the same output again overwrites in place.
	if again, err := store.Save(context.Background(), out); err != nil || again != publicPath {
		t.Errorf("Expected idempotent save, got %s, %v", again, err)
	}
}

func TestStore_Save_AbsoluteOutputDir(t *testing.T) {
	base := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "images")
	store := NewStore(base)
	out := models.ProcessedImage{
		Data:       []byte("resized"),
		OutputPath: filepath.Join(outputDir, "photo", "800", "abc.jpg"),
	}

	saved, err := store.Save(context.Background(), out)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(out.OutputPath); err != nil {
		t.Errorf("Expected file at the absolute output path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, out.OutputPath)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Absolute output must not be nested under the base dir, got %v", err)
	}
	if want := publicPath(out.OutputPath); saved != want {
		t.Errorf("Expected %s, got %s", want, saved)
	}
}

func TestStore_Save_Failure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "output")
	if err := os.WriteFile(blocker, []byte("file, not dir"), 0o644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	store := NewStore(base)
	_, err := store.Save(context.Background(), models.ProcessedImage{
		Data:       []byte("x"),
		OutputPath: filepath.Join("output", "photo", "800", "abc.jpg"),
	})

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected *StorageError, got %v", err)
	}
}

func TestPublicPath(t *testing.T) {
	cases := map[string]string{
		"output/a/1/f.jpg":  "/output/a/1/f.jpg",
		"/output/a/1/f.jpg": "/output/a/1/f.jpg",
		`output\a\1\f.jpg`:  "/output/a/1/f.jpg",
	}
	for in, want := range cases {
		if got := publicPath(in); got != want {
			t.Errorf("publicPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProcessor_EndToEnd(t *testing.T) {
	logger := zaptest.NewLogger(t)
	base := t.TempDir()
	sourcePath := filepath.Join(base, "input.jpg")
	if err := os.WriteFile(sourcePath, encodeJPEG(t, 300, 150), 0o644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	processor := NewProcessor(
		NewLoader(nil, logger),
		NewConverter(logger, Options{OutputDir: "output", AllowEnlarge: true}),
		NewStore(base),
	)
	ctx := context.Background()

	src, err := processor.LoadImageBuffer(ctx, sourcePath)
	if err != nil {
		t.Fatalf("LoadImageBuffer failed: %v", err)
	}
	outputs, err := processor.ProcessImage(ctx, src, []int{100})
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	saved, err := processor.SaveImage(ctx, outputs[0])
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	want := "/output/input/100/" + outputs[0].Fingerprint + ".jpg"
	if saved != want {
		t.Errorf("Expected %s, got %s", want, saved)
	}
	if _, err := os.Stat(filepath.Join(base, "output", "input", "100", outputs[0].Fingerprint+".jpg")); err != nil {
		t.Errorf("Expected saved file: %v", err)
	}
}
