package doctext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// pdfToText shells out to poppler's pdftotext for PDFs the in-process reader cannot handle.
func (e *Extractor) pdfToText(ctx context.Context, data []byte) (extract.TextResult, error) {
	res := extract.TextResult{Format: constants.PDF, Method: "pdftotext"}

	f, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return res, err
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil {
			e.logger.Warn("failed to remove temp file", "path", f.Name(), "error", err)
		}
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return res, err
	}
	if err := f.Close(); err != nil {
		return res, err
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", f.Name(), "-")
	if err != nil {
		return res, fmt.Errorf("pdftotext: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}
	text := strings.TrimRight(string(out), "\f\n")
	// form feed separates pages
	res.Pages = 1 + strings.Count(text, "\f")
	res.Text = strings.ReplaceAll(text, "\f", "\n")
	return res, nil
}

// pdfWithFallback runs the in-process reader and, when configured, retries with
// pdftotext if that failed or found no text.
func (e *Extractor) pdfWithFallback(ctx context.Context, data []byte) (extract.TextResult, error) {
	res, err := e.extractPDF(ctx, data)
	if e.cfg.Pdftotext == "" || (err == nil && strings.TrimSpace(res.Text) != "") {
		return res, err
	}
	if ctx.Err() != nil {
		return res, err
	}

	fb, fbErr := e.pdfToText(ctx, data)
	if fbErr != nil {
		e.logger.Warn("pdftotext fallback failed", "error", fbErr)
		if err != nil {
			return res, err
		}
		res.Warnings = append(res.Warnings, fbErr.Error())
		return res, nil
	}
	if err != nil {
		fb.Warnings = append(fb.Warnings, "pdf reader: "+err.Error())
	}
	fb.Warnings = append(res.Warnings, fb.Warnings...)
	return fb, nil
}
