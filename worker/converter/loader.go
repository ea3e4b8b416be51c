package converter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"imageResizer/api/models"
	"imageResizer/api/validation"
)

const (
	defaultMimeType = "image/jpeg"
	defaultExt      = ".jpg"

	DefaultMaxSourceBytes int64 = 50 << 20
)

type Loader struct {
	client   *http.Client
	logger   *zap.Logger
	maxBytes int64
}

func NewLoader(client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client, logger: logger, maxBytes: DefaultMaxSourceBytes}
}

// WithMaxBytes caps how much of a source is read. Non-positive values keep
// the current limit.
func (l *Loader) WithMaxBytes(n int64) *Loader {
	if n > 0 {
		l.maxBytes = n
	}
	return l
}

// Load reads the source fully into memory. Remote sources take their mime
// type from Content-Type; local files are sniffed from their content.
func (l *Loader) Load(ctx context.Context, source string) (models.ImageSource, error) {
	var (
		data       []byte
		mimeType   string
		sourcePath string
		err        error
	)

	if validation.IsRemote(source) {
		l.logger.Debug("Fetching remote image", zap.String("source", source))
		data, mimeType, err = l.fetch(ctx, source)
		if u, perr := url.Parse(source); perr == nil {
			sourcePath = u.Path
		}
	} else {
		l.logger.Debug("Reading local image", zap.String("source", source))
		data, err = l.readFile(source)
		if err == nil {
			mimeType = sniffMimeType(data)
		}
		sourcePath = source
	}
	if err != nil {
		return models.ImageSource{}, fmt.Errorf("failed to load image from source '%s': %w", source, err)
	}

	name, ext := splitName(sourcePath)
	if name == "" {
		suffix, err := randomHex(8)
		if err != nil {
			return models.ImageSource{}, fmt.Errorf("failed to load image from source '%s': %w", source, err)
		}
		name = "image_" + suffix
	}
	if ext == "" {
		ext = defaultExt
	}

	return models.ImageSource{
		Data:     data,
		Name:     name,
		Ext:      ext,
		MimeType: mimeType,
	}, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mimeType := stripParams(resp.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = defaultMimeType
	}
	return data, mimeType, nil
}

func (l *Loader) readFile(source string) ([]byte, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &SourceTooLargeError{Limit: l.maxBytes}
	}
	return data, nil
}

func sniffMimeType(data []byte) string {
	detected := stripParams(mimetype.Detect(data).String())
	if detected == "" {
		return defaultMimeType
	}
	return detected
}

func stripParams(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// splitName returns the stem and extension of the last path element,
// treating both slash styles as separators.
func splitName(p string) (string, string) {
	p = strings.ReplaceAll(p, `\`, "/")
	base := path.Base(p)
	if base == "." || base == "/" {
		return "", ""
	}
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
