package converter

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"imageResizer/api/models"
)

type outputFormat struct {
	name   string
	ext    string
	format imaging.Format
}

var (
	jpegFormat = outputFormat{name: "jpeg", ext: ".jpg", format: imaging.JPEG}
	pngFormat  = outputFormat{name: "png", ext: ".png", format: imaging.PNG}
	gifFormat  = outputFormat{name: "gif", ext: ".gif", format: imaging.GIF}
	tiffFormat = outputFormat{name: "tiff", ext: ".tiff", format: imaging.TIFF}
)

// No pure Go WEBP encoder exists, so WEBP sources are written as lossless PNG.
var formatByMimeType = map[string]outputFormat{
	"image/jpeg": jpegFormat,
	"image/jpg":  jpegFormat,
	"image/png":  pngFormat,
	"image/webp": pngFormat,
	"image/gif":  gifFormat,
	"image/tiff": tiffFormat,
}

func formatFor(mimeType string) outputFormat {
	if f, ok := formatByMimeType[mimeType]; ok {
		return f
	}
	return jpegFormat
}

type Options struct {
	OutputDir    string
	AllowEnlarge bool
}

type Converter struct {
	opts   Options
	logger *zap.Logger
}

func NewConverter(logger *zap.Logger, opts Options) *Converter {
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	return &Converter{opts: opts, logger: logger}
}

// Transform resizes src to every width, in order. It returns either one
// output per width or a *TransformError and no outputs.
func (c *Converter) Transform(src models.ImageSource, widths []int) ([]models.ProcessedImage, error) {
	c.logger.Info("Starting transformation",
		zap.String("name", src.Name),
		zap.String("mime_type", src.MimeType),
		zap.Ints("widths", widths),
	)

	if len(widths) == 0 {
		return []models.ProcessedImage{}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
	if err != nil {
		c.logger.Error("Failed to decode image",
			zap.String("name", src.Name),
			zap.Error(err),
		)
		return nil, &TransformError{Err: fmt.Errorf("decode: %w", err)}
	}

	format := formatFor(src.MimeType)
	outputs := make([]models.ProcessedImage, 0, len(widths))

	for _, w := range widths {
		if w <= 0 {
			return nil, &TransformError{Err: fmt.Errorf("invalid width: %d", w)}
		}

		data, err := c.resize(img, w, format)
		if err != nil {
			c.logger.Error("Failed to resize image",
				zap.String("name", src.Name),
				zap.Int("width", w),
				zap.Error(err),
			)
			return nil, &TransformError{Err: err}
		}

		sum := md5.Sum(data)
		fingerprint := hex.EncodeToString(sum[:])
		resolution := strconv.Itoa(w)

		outputs = append(outputs, models.ProcessedImage{
			Data:        data,
			Resolution:  resolution,
			Fingerprint: fingerprint,
			Format:      format.name,
			OutputPath:  filepath.Join(c.opts.OutputDir, src.Name, resolution, fingerprint+format.ext),
		})
	}

	c.logger.Info("Transformation completed",
		zap.String("name", src.Name),
		zap.Int("outputs", len(outputs)),
	)

	return outputs, nil
}

func (c *Converter) resize(img image.Image, width int, format outputFormat) ([]byte, error) {
	var resized *image.NRGBA
	if !c.opts.AllowEnlarge && width >= img.Bounds().Dx() {
		resized = imaging.Clone(img)
	} else {
		resized = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format.format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format.name, err)
	}
	return buf.Bytes(), nil
}
