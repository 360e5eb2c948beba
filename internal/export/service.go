package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/utils"
)

const sheet = "Candidates"

// Options narrows an export.
type Options struct {
	IncludeContact bool                  // unmasked email and phone
	Status         constants.ParseStatus // empty means every status
}

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	candidates  repository.CandidateRepository
	extractions repository.ExtractionRepository
	logger      *slog.Logger
}

func NewService(candidates repository.CandidateRepository, extractions repository.ExtractionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{candidates: candidates, extractions: extractions, logger: logger}
}

// ExportCandidatesXLSX returns an XLSX workbook (as bytes) with one row per candidate, newest first.
func (s *Service) ExportCandidatesXLSX(ctx context.Context, opts Options) ([]byte, error) {
	start := time.Now()

	cands, err := s.candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Name", "Email", "Phone", "Company", "Designation", "Status", "Skills", "Model", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, style)
	}

	row := 2
	for _, c := range cands {
		if opts.Status != "" && c.ExtractionStatus != opts.Status {
			continue
		}

		model, skills := "n/a", ""
		latest, err := s.extractions.Latest(ctx, c.ID)
		switch {
		case err == nil:
			model = latest.ModelName
			skills = strings.Join(latest.Fields.Skills, ", ")
		case !errors.Is(err, common.ErrNotFound):
			return nil, fmt.Errorf("latest extraction for %s: %w", c.ID, err)
		}

		email, phone := utils.MaskEmail(c.PrimaryEmail), utils.MaskPhone(c.PrimaryPhone)
		if opts.IncludeContact {
			email, phone = c.PrimaryEmail, c.PrimaryPhone
		}

		values := []any{
			c.Name,
			email,
			phone,
			c.LatestCompany,
			c.Designation,
			string(c.ExtractionStatus),
			truncate(skills, 500),
			model,
			utils.FormatTime(c.CreatedAt),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", row, err)
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 24) // name
	_ = f.SetColWidth(sheet, "B", "C", 28) // contact
	_ = f.SetColWidth(sheet, "D", "E", 26) // company, designation
	_ = f.SetColWidth(sheet, "F", "F", 10) // status
	_ = f.SetColWidth(sheet, "G", "G", 48) // skills
	_ = f.SetColWidth(sheet, "H", "I", 22)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"include_contact", opts.IncludeContact,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
