package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

// FSIngestor reads résumés from the local filesystem and uploads each one.
// Identical content seen earlier by the same ingestor is skipped.
type FSIngestor struct {
	uploader Uploader
	maxBytes int64
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]IngestionResult
}

func NewFSIngestor(u Uploader, maxBytes int64, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = int64(constants.DefaultMaxUploadMB) << 20
	}
	return &FSIngestor{uploader: u, maxBytes: maxBytes, logger: logger, seen: map[string]IngestionResult{}}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	out := IngestionResult{SourcePath: path}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}
	out.SourcePath = abs
	if !AllowedExt(filepath.Ext(abs)) {
		return out, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return out, fmt.Errorf("stat: %w", err)
	}
	if info.Size() > i.maxBytes {
		return out, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), i.maxBytes)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return out, fmt.Errorf("read: %w", err)
	}
	sum := sha256.Sum256(content)
	out.HashHex = hex.EncodeToString(sum[:])

	i.mu.Lock()
	prev, dup := i.seen[out.HashHex]
	i.mu.Unlock()
	if dup {
		i.logger.Info("ingest.duplicate", "path", abs, "first", prev.SourcePath, "resume_id", prev.ResumeID)
		out.CandidateID, out.ResumeID, out.Deduplicated = prev.CandidateID, prev.ResumeID, true
		return out, nil
	}

	name := filepath.Base(abs)
	res, err := i.uploader.Upload(ctx, candidate.UploadRequest{
		Filename:    name,
		ContentType: constants.MimeForFormat(constants.DetectFormat(name, "")),
		Content:     content,
		TraceID:     "ingest:" + out.HashHex[:12],
	})
	if err != nil {
		return out, err
	}
	out.CandidateID, out.ResumeID = res.CandidateID, res.ResumeID

	i.mu.Lock()
	i.seen[out.HashHex] = out
	i.mu.Unlock()
	i.logger.Info("ingest.uploaded", "path", abs, "candidate_id", res.CandidateID, "resume_id", res.ResumeID)
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested,
// and calls IngestPath for each résumé file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			i.logger.Warn("ingest.failed", "path", path, "err", err)
			r.Err = err.Error()
			results = append(results, r)
			stats.Failed++
			return nil
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("directory ingest completed", "root", root, "scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated, "failed", stats.Failed)
	return results, stats, nil
}
