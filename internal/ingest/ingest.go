// Package ingest feeds résumé files from the local filesystem into the upload path.
package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string    `json:"source_path"`
	CandidateID  uuid.UUID `json:"candidate_id,omitempty"`
	ResumeID     uuid.UUID `json:"resume_id,omitempty"`
	Deduplicated bool      `json:"deduplicated"`
	HashHex      string    `json:"sha256"`
	Err          string    `json:"error,omitempty"`
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32 `json:"scanned"`
	Matched      uint32 `json:"matched"`
	Succeeded    uint32 `json:"succeeded"`
	Deduplicated uint32 `json:"deduplicated"`
	Failed       uint32 `json:"failed"`
}

// Uploader is the part of candidate.Service the ingestor drives.
type Uploader interface {
	Upload(ctx context.Context, req candidate.UploadRequest) (*candidate.UploadResult, error)
}
