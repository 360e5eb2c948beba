// Package doctext turns stored resume bytes (PDF or DOCX) into plain text.
package doctext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// ErrInvalidDocument is returned when no supported parser could read the input.
var ErrInvalidDocument = errors.New("invalid document")

type Config struct {
	MaxPages  int    // 0 = no limit
	Pdftotext string // optional pdftotext binary used when the PDF reader yields nothing
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPages < 0 {
		cfg.MaxPages = 0
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

var _ extract.TextExtractor = (*Extractor)(nil)

// Extract picks a parser from the filename and declared type. Unknown inputs try
// PDF first and fall back to DOCX.
func (e *Extractor) Extract(ctx context.Context, doc extract.Document) (extract.TextResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return extract.TextResult{}, err
	}
	format := constants.DetectFormat(doc.Filename, doc.ContentType)
	e.logger.Debug("starting text extraction",
		"filename", doc.Filename, "content_type", doc.ContentType,
		"format", format, "bytes", len(doc.Data),
	)

	var (
		res extract.TextResult
		err error
	)
	switch format {
	case constants.PDF:
		res, err = e.pdfWithFallback(ctx, doc.Data)
		if err != nil {
			err = fmt.Errorf("%w: pdf: %w", ErrInvalidDocument, err)
		}
	case constants.DOCX:
		res, err = e.extractDOCX(doc.Data)
		if err != nil {
			err = fmt.Errorf("%w: docx: %w", ErrInvalidDocument, err)
		}
	default:
		var pdfErr error
		res, pdfErr = e.extractPDF(ctx, doc.Data)
		if pdfErr != nil {
			e.logger.Debug("pdf parse failed, trying docx", "filename", doc.Filename, "error", pdfErr)
			var docxErr error
			res, docxErr = e.extractDOCX(doc.Data)
			if docxErr != nil {
				err = fmt.Errorf("%w: pdf: %w; docx: %w", ErrInvalidDocument, pdfErr, docxErr)
			}
		}
	}
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("text extraction failed", "filename", doc.Filename, "error", err)
		return res, err
	}

	e.logger.Info("text extraction ok",
		"filename", doc.Filename,
		"format", res.Format,
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
