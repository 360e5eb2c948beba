package doctext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

// extractPDF reads page by page. A page that fails is recorded as a warning and
// skipped; the rest of the document still counts.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (res extract.TextResult, err error) {
	res = extract.TextResult{Format: constants.PDF, Method: "pdf-text"}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return res, err
	}
	n := r.NumPage()
	if e.cfg.MaxPages > 0 && n > e.cfg.MaxPages {
		res.Warnings = append(res.Warnings, fmt.Sprintf("truncated to %d of %d pages", e.cfg.MaxPages, n))
		n = e.cfg.MaxPages
	}

	chunks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		txt, perr := pageText(r, i)
		if perr != nil {
			e.logger.Warn("pdf page skipped", "page", i, "error", perr)
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %v", i, perr))
			continue
		}
		chunks = append(chunks, txt)
	}
	res.Pages = n
	res.Text = strings.Join(chunks, "\n")
	return res, nil
}

func pageText(r *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
