package validation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateSource(t *testing.T) {
	cases := []struct {
		source string
		want   error
	}{
		{"https://example.com/photo.jpg", nil},
		{"HTTP://example.com/a.png", nil},
		{"/var/data/photo.jpg", nil},
		{"./uploads/photo.jpg", nil},
		{"../photo.jpg", nil},
		{`C:\images\photo.jpg`, nil},
		{"C:/images/photo.jpg", nil},
		{`.\photo.jpg`, nil},
		{`\\server\share\photo.jpg`, nil},
		{"", ErrEmptySource},
		{"   ", ErrEmptySource},
		{"photo.jpg", ErrInvalidSource},
		{"ftp://example.com/photo.jpg", ErrInvalidSource},
		{"https://", ErrInvalidSource},
	}

	for _, tc := range cases {
		err := ValidateSource(tc.source)
		if !errors.Is(err, tc.want) {
			t.Errorf("ValidateSource(%q) = %v, want %v", tc.source, err, tc.want)
		}
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("https://example.com/a.jpg") || !IsRemote("Http://x") {
		t.Error("Expected http(s) sources to be remote")
	}
	if IsRemote("./https/a.jpg") || IsRemote("/tmp/a.jpg") {
		t.Error("Expected paths to be local")
	}
}

func TestValidateTaskID(t *testing.T) {
	if err := ValidateTaskID(uuid.New().String()); err != nil {
		t.Errorf("Expected valid uuid to pass, got %v", err)
	}
	if err := ValidateTaskID(""); !errors.Is(err, ErrEmptyTaskID) {
		t.Errorf("Expected ErrEmptyTaskID, got %v", err)
	}
	if err := ValidateTaskID("507f1f77bcf86cd799439011"); !errors.Is(err, ErrInvalidTaskID) {
		t.Errorf("Expected ErrInvalidTaskID, got %v", err)
	}
}
