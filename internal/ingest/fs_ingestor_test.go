package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

type recordingUploader struct {
	reqs []candidate.UploadRequest
}

func (u *recordingUploader) Upload(_ context.Context, req candidate.UploadRequest) (*candidate.UploadResult, error) {
	u.reqs = append(u.reqs, req)
	if len(req.Content) == 0 {
		return nil, errors.New("empty file")
	}
	return &candidate.UploadResult{CandidateID: uuid.New(), ResumeID: uuid.New(), Status: constants.ParseStatusParsing}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "%PDF-1.4 alpha")
	writeFile(t, filepath.Join(root, "b.docx"), "PK docx bytes")
	writeFile(t, filepath.Join(root, "copy.pdf"), "%PDF-1.4 alpha")
	writeFile(t, filepath.Join(root, "empty.pdf"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"), "%PDF-1.4 hidden")

	up := &recordingUploader{}
	ing := NewFSIngestor(up, 1<<20, slog.New(slog.NewTextHandler(io.Discard, nil)))

	results, stats, err := ing.IngestDirectory(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, DirStats{Scanned: 7, Matched: 4, Succeeded: 3, Deduplicated: 1, Failed: 1}, stats)
	require.Len(t, results, 4)
	require.Len(t, up.reqs, 3)
	assert.Equal(t, "a.pdf", up.reqs[0].Filename)
	assert.Equal(t, constants.MimePDF, up.reqs[0].ContentType)
	assert.Equal(t, constants.MimeDOCX, up.reqs[1].ContentType)

	var dup, failed IngestionResult
	for _, r := range results {
		switch filepath.Base(r.SourcePath) {
		case "copy.pdf":
			dup = r
		case "empty.pdf":
			failed = r
		}
	}
	assert.True(t, dup.Deduplicated)
	assert.Equal(t, results[0].ResumeID, dup.ResumeID)
	assert.Equal(t, "empty file", failed.Err)
}

func TestIngestDirectory_IncludesHiddenWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"), "%PDF-1.4 hidden")

	up := &recordingUploader{}
	_, stats, err := NewFSIngestor(up, 0, nil).IngestDirectory(context.Background(), root, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Succeeded)
}

func TestIngestPath_Rejections(t *testing.T) {
	root := t.TempDir()
	big := filepath.Join(root, "big.pdf")
	writeFile(t, big, "0123456789")
	txt := filepath.Join(root, "cv.txt")
	writeFile(t, txt, "x")

	ing := NewFSIngestor(&recordingUploader{}, 5, nil)
	_, err := ing.IngestPath(context.Background(), big)
	assert.ErrorContains(t, err, "limit")

	_, err = ing.IngestPath(context.Background(), txt)
	assert.ErrorContains(t, err, "unsupported")

	_, err = ing.IngestPath(context.Background(), filepath.Join(root, "missing.pdf"))
	assert.Error(t, err)

	_, _, err = ing.IngestDirectory(context.Background(), " ", true)
	assert.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/tmp/.git"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("/tmp/cv.pdf"))
}
