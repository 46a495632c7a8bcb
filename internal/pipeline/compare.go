package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/epub"
	"github.com/nao1215/epubdiff/internal/model"
)

// Compare runs the full comparison of one archive pair and returns the
// accumulated report. It is the single entry point callers use; the CLI
// and batch mode both go through it.
//
// Only failing to open an archive is fatal and returns an error. Every
// divergence found after both archives are open is recorded in the
// report, never returned as an error, so a heavily broken translated
// archive still yields a complete report. Archive handles are scoped to
// this call and closed on every exit path.
func Compare(ctx context.Context, originalPath, translatedPath string, cfg *config.Config, opts ...Option) (*model.ComparisonReport, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	original, err := epub.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("open original archive: %w", err)
	}
	defer original.Close() //nolint:errcheck // read-only handle

	translated, err := epub.Open(translatedPath)
	if err != nil {
		return nil, fmt.Errorf("open translated archive: %w", err)
	}
	defer translated.Close() //nolint:errcheck // read-only handle

	c := &Comparison{
		Original:   original,
		Translated: translated,
		Config:     cfg,
		Report:     model.NewComparisonReport(originalPath, translatedPath),
	}

	p := DefaultPipeline(cfg, append([]Option{WithContinueOnError(true)}, opts...)...)
	if err := p.Execute(ctx, c); err != nil {
		// Cancellation is the only way a continue-on-error pipeline
		// stops early; the partial report is still worth returning.
		return c.Report, err
	}
	return c.Report, nil
}
