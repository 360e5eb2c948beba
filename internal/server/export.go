package server

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/export"
)

// Exporter renders the candidate workbook.
type Exporter interface {
	ExportCandidatesXLSX(ctx context.Context, opts export.Options) ([]byte, error)
}

func (s *CandidateServer) ExportCandidates(ctx context.Context, req *ExportCandidatesRequest) (*ExportCandidatesResponse, error) {
	opts := export.Options{IncludeContact: req.IncludeContact}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		st, ok := constants.LookupParseStatus(raw)
		if !ok {
			return nil, common.InvalidArgumentErrorf("unknown status %q", raw)
		}
		opts.Status = st
	}

	xlsx, err := s.exporter.ExportCandidatesXLSX(ctx, opts)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "status", opts.Status, "err", err)
		return nil, common.GRPCError(err)
	}
	return &ExportCandidatesResponse{Xlsx: xlsx}, nil
}
