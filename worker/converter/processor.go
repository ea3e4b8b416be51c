package converter

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"imageResizer/api/config"
	"imageResizer/api/models"
)

// Processor composes Loader, Converter and Store behind the orchestrator's
// ImageProcessor port.
type Processor struct {
	loader    *Loader
	converter *Converter
	store     *Store
}

func NewProcessor(loader *Loader, converter *Converter, store *Store) *Processor {
	return &Processor{
		loader:    loader,
		converter: converter,
		store:     store,
	}
}

func (p *Processor) LoadImageBuffer(ctx context.Context, source string) (models.ImageSource, error) {
	return p.loader.Load(ctx, source)
}

func (p *Processor) ProcessImage(_ context.Context, src models.ImageSource, widths []int) ([]models.ProcessedImage, error) {
	return p.converter.Transform(src, widths)
}

func (p *Processor) SaveImage(ctx context.Context, out models.ProcessedImage) (string, error) {
	return p.store.Save(ctx, out)
}

// NewProcessorFromConfig wires the loader, converter and store for cfg.
// A relative output dir resolves against the working directory.
func NewProcessorFromConfig(cfg config.ProcessingConfig, logger *zap.Logger) *Processor {
	client := &http.Client{Timeout: cfg.FetchTimeout}
	return NewProcessor(
		NewLoader(client, logger).WithMaxBytes(cfg.MaxSourceBytes),
		NewConverter(logger, Options{OutputDir: cfg.OutputDir, AllowEnlarge: cfg.AllowEnlarge}),
		NewStore("."),
	)
}
