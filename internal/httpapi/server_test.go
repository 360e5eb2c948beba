package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/async"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	"github.com/joseph-ayodele/resume-parser/internal/migrate"
	"github.com/joseph-ayodele/resume-parser/internal/mocks"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

type stubExporter struct {
	got export.Options
	err error
}

func (s *stubExporter) ExportCandidatesXLSX(_ context.Context, opts export.Options) ([]byte, error) {
	s.got = opts
	return []byte("PK\x03\x04"), s.err
}

type stubPinger struct{ err error }

func (p stubPinger) HealthCheck(context.Context, time.Duration) error { return p.err }

type fixture struct {
	srv      *httptest.Server
	queue    *mocks.MockQueue
	exporter *stubExporter
}

func newFixture(t *testing.T, pinger Pinger) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	db, err := repository.Open(ctx, repository.Config{Driver: repository.DriverSQLite, DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, migrate.Run(ctx, db.SQL(), db.Dialect(), logger))

	queue := mocks.NewMockQueue(ctrl)
	exp := &stubExporter{}
	api := Server{
		Candidates:     candidate.NewService(candidate.Options{DB: db, Queue: queue, Logger: logger, MaxUploadBytes: 64 << 10}),
		Exporter:       exp,
		DB:             pinger,
		Logger:         logger,
		MaxUploadBytes: 64 << 10,
	}
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, queue: queue, exporter: exp}
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, filename, contentType string, content []byte) *http.Response {
	t.Helper()
	body, ct := multipartBody(t, filename, contentType, content)
	resp, err := http.Post(f.srv.URL+"/api/candidates/upload", ct, body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestUpload_Created(t *testing.T) {
	f := newFixture(t, nil)
	var job async.Job
	f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, j async.Job) error {
			job = j
			return nil
		})

	resp := f.upload(t, "jane.pdf", "application/pdf", []byte("%PDF-1.4 jane"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := decode[candidate.UploadResult](t, resp)
	assert.Equal(t, constants.ParseStatusParsing, res.Status)
	assert.Equal(t, "Resume uploaded; parsing started.", res.Message)
	assert.Equal(t, res.ResumeID, job.ResumeID)
	assert.NotEmpty(t, job.TraceID)

	get, err := http.Get(f.srv.URL + "/api/candidates/" + res.CandidateID.String())
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)
	p := decode[candidate.Profile](t, get)
	assert.Equal(t, res.CandidateID, p.ID)
	assert.Equal(t, constants.ParseStatusParsing, p.ExtractionStatus)

	hist, err := http.Get(f.srv.URL + "/api/candidates/" + res.CandidateID.String() + "/resumes")
	require.NoError(t, err)
	defer hist.Body.Close()
	rs := decode[[]candidate.ResumeSummary](t, hist)
	require.Len(t, rs, 1)
	assert.Equal(t, int64(len("%PDF-1.4 jane")), rs[0].SizeBytes)

	list, err := http.Get(f.srv.URL + "/api/candidates")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Len(t, decode[[]candidate.Summary](t, list), 1)
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.upload(t, "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.upload(t, "empty.pdf", "application/pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.upload(t, "big.pdf", "application/pdf", bytes.Repeat([]byte("a"), 100<<10))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	noFile, err := http.Post(f.srv.URL+"/api/candidates/upload", "multipart/form-data; boundary=x", bytes.NewBufferString("--x--\r\n"))
	require.NoError(t, err)
	defer noFile.Body.Close()
	assert.Equal(t, http.StatusBadRequest, noFile.StatusCode)
}

func TestGetCandidate_BadAndUnknownID(t *testing.T) {
	f := newFixture(t, nil)

	bad, err := http.Get(f.srv.URL + "/api/candidates/not-a-uuid")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	missing, err := http.Get(f.srv.URL + "/api/candidates/" + uuid.NewString())
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	hist, err := http.Get(f.srv.URL + "/api/candidates/" + uuid.NewString() + "/resumes")
	require.NoError(t, err)
	defer hist.Body.Close()
	assert.Equal(t, http.StatusNotFound, hist.StatusCode)
}

func TestExport(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.srv.URL + "/api/candidates/export.xlsx?include_contact=true&status=failed")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.True(t, f.exporter.got.IncludeContact)
	assert.Equal(t, constants.ParseStatusFailed, f.exporter.got.Status)

	bad, err := http.Get(f.srv.URL + "/api/candidates/export.xlsx?status=maybe")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	f.exporter.err = errors.New("boom")
	failed, err := http.Get(f.srv.URL + "/api/candidates/export.xlsx")
	require.NoError(t, err)
	defer failed.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, failed.StatusCode)
	body := decode[map[string]string](t, failed)
	assert.Equal(t, "internal error", body["error"])
}

func TestHealthz(t *testing.T) {
	ok := newFixture(t, stubPinger{})
	resp, err := http.Get(ok.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newFixture(t, stubPinger{err: errors.New("no db")})
	resp2, err := http.Get(down.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}
