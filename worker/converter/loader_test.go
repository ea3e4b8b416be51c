package converter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestLoader_Load_Remote(t *testing.T) {
	payload := encodePNG(t, 50, 40)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png; charset=binary")
		w.Write(payload)
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), zaptest.NewLogger(t))

	src, err := loader.Load(context.Background(), server.URL+"/images/sunset.png?size=large")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.Name != "sunset" || src.Ext != ".png" {
		t.Errorf("Expected sunset/.png, got %s/%s", src.Name, src.Ext)
	}
	if src.MimeType != "image/png" {
		t.Errorf("Expected image/png, got %s", src.MimeType)
	}
	if len(src.Data) != len(payload) {
		t.Errorf("Expected %d bytes, got %d", len(payload), len(src.Data))
	}
}

func TestLoader_Load_RemoteWithoutContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write(encodePNG(t, 10, 10))
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), zaptest.NewLogger(t))

	src, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.MimeType != "image/jpeg" {
		t.Errorf("Expected default image/jpeg, got %s", src.MimeType)
	}
	if !regexp.MustCompile(`^image_[0-9a-f]{16}$`).MatchString(src.Name) {
		t.Errorf("Expected random fallback name, got %q", src.Name)
	}
	if src.Ext != ".jpg" {
		t.Errorf("Expected default .jpg extension, got %s", src.Ext)
	}
}

func TestLoader_Load_RemoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), zaptest.NewLogger(t))
	source := server.URL + "/missing.jpg"

	_, err := loader.Load(context.Background(), source)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", fetchErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "404 Not Found") || !strings.Contains(err.Error(), source) {
		t.Errorf("Expected status and source in error, got %q", err.Error())
	}
}

func TestLoader_Load_RemoteTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(make([]byte, 4096))
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), zaptest.NewLogger(t)).WithMaxBytes(1024)

	_, err := loader.Load(context.Background(), server.URL+"/huge.png")
	var tooLarge *SourceTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Expected *SourceTooLargeError, got %v", err)
	}
	if tooLarge.Limit != 1024 {
		t.Errorf("Expected limit 1024, got %d", tooLarge.Limit)
	}
}

func TestLoader_Load_LocalLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	payload := encodePNG(t, 20, 20)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	exact := NewLoader(nil, zaptest.NewLogger(t)).WithMaxBytes(int64(len(payload)))
	if _, err := exact.Load(context.Background(), path); err != nil {
		t.Fatalf("Expected a source at the limit to load, got %v", err)
	}

	under := NewLoader(nil, zaptest.NewLogger(t)).WithMaxBytes(int64(len(payload) - 1))
	var tooLarge *SourceTooLargeError
	if _, err := under.Load(context.Background(), path); !errors.As(err, &tooLarge) {
		t.Errorf("Expected *SourceTooLargeError, got %v", err)
	}
}

func TestLoader_Load_LocalSniffsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mislabeled.jpg")
	if err := os.WriteFile(path, encodePNG(t, 20, 20), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	loader := NewLoader(nil, zaptest.NewLogger(t))

	src, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.MimeType != "image/png" {
		t.Errorf("Expected content-sniffed image/png, got %s", src.MimeType)
	}
	if src.Name != "mislabeled" || src.Ext != ".jpg" {
		t.Errorf("Expected mislabeled/.jpg, got %s/%s", src.Name, src.Ext)
	}
}

func TestLoader_Load_LocalMissing(t *testing.T) {
	loader := NewLoader(nil, zaptest.NewLogger(t))
	source := filepath.Join(t.TempDir(), "nope.jpg")

	_, err := loader.Load(context.Background(), source)
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), source) {
		t.Errorf("Expected source in error, got %q", err.Error())
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, name, ext string
	}{
		{"/images/photo.jpg", "photo", ".jpg"},
		{`C:\images\photo.png`, "photo", ".png"},
		{"./archive.tar.gz", "archive.tar", ".gz"},
		{"/images/", "images", ""},
		{"", "", ""},
		{"/", "", ""},
	}
	for _, tc := range cases {
		name, ext := splitName(tc.in)
		if name != tc.name || ext != tc.ext {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q", tc.in, name, ext, tc.name, tc.ext)
		}
	}
}
