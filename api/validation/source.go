package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	remotePattern      = regexp.MustCompile(`(?i)^https?://\S+`)
	unixPathPattern    = regexp.MustCompile(`^(/|\.\.?/)`)
	windowsPathPattern = regexp.MustCompile(`^([a-zA-Z]:[\\/]|\.\.?\\|\\\\)`)
)

// IsRemote reports whether source is fetched over HTTP. It is a prefix test,
// not a URI parse.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ValidateSource accepts http(s) URLs and absolute or dot-relative Unix and
// Windows paths.
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}
	if remotePattern.MatchString(source) || unixPathPattern.MatchString(source) || windowsPathPattern.MatchString(source) {
		return nil
	}
	return ErrInvalidSource
}

func ValidateTaskID(taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return ErrEmptyTaskID
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return ErrInvalidTaskID
	}
	return nil
}
