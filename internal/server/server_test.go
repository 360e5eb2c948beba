package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/async"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	"github.com/joseph-ayodele/resume-parser/internal/migrate"
	"github.com/joseph-ayodele/resume-parser/internal/mocks"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

type fakeExporter struct {
	got  export.Options
	data []byte
	err  error
}

func (f *fakeExporter) ExportCandidatesXLSX(_ context.Context, opts export.Options) ([]byte, error) {
	f.got = opts
	return f.data, f.err
}

type harness struct {
	client   *CandidateClient
	conn     *grpc.ClientConn
	queue    *mocks.MockQueue
	exporter *fakeExporter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	db, err := repository.Open(ctx, repository.Config{Driver: repository.DriverSQLite, DSN: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, migrate.Run(ctx, db.SQL(), db.Dialect(), logger))

	queue := mocks.NewMockQueue(ctrl)
	svc := candidate.NewService(candidate.Options{DB: db, Queue: queue, Logger: logger, MaxUploadBytes: 1 << 20})
	exp := &fakeExporter{data: []byte("PK")}

	gs, _ := NewGRPCServer(NewCandidateServer(svc, exp, logger), 4<<20, logger)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{client: NewCandidateClient(conn), conn: conn, queue: queue, exporter: exp}
}

func TestUploadResume_ThenGetCandidate(t *testing.T) {
	h := newHarness(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "trace-42")

	var job async.Job
	h.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, j async.Job) error {
			job = j
			return nil
		})

	up, err := h.client.UploadResume(ctx, &UploadResumeRequest{
		Filename:    "jane.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4 jane"),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.ParseStatusParsing, up.Result.Status)
	assert.Equal(t, "Resume uploaded; parsing started.", up.Result.Message)
	assert.Equal(t, "trace-42", job.TraceID)
	assert.Equal(t, up.Result.ResumeID, job.ResumeID)

	got, err := h.client.GetCandidate(ctx, &GetCandidateRequest{ID: up.Result.CandidateID.String()})
	require.NoError(t, err)
	require.NotNil(t, got.Candidate)
	assert.Equal(t, up.Result.CandidateID, got.Candidate.ID)
	assert.Equal(t, "n/a", got.Candidate.Profile.ModelName)
	require.Len(t, got.Resumes, 1)
	assert.Equal(t, "jane.pdf", got.Resumes[0].OriginalName)

	list, err := h.client.ListCandidates(ctx, &ListCandidatesRequest{})
	require.NoError(t, err)
	require.Len(t, list.Candidates, 1)
}

func TestUploadResume_InvalidFileIsInvalidArgument(t *testing.T) {
	h := newHarness(t)
	_, err := h.client.UploadResume(context.Background(), &UploadResumeRequest{Filename: "notes.txt", Content: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetCandidate_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.client.GetCandidate(ctx, &GetCandidateRequest{ID: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.GetCandidate(ctx, &GetCandidateRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.GetCandidate(ctx, &GetCandidateRequest{ID: uuid.NewString()})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestExportCandidates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.client.ExportCandidates(ctx, &ExportCandidatesRequest{IncludeContact: true, Status: "parsed"})
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), out.Xlsx)
	assert.True(t, h.exporter.got.IncludeContact)
	assert.Equal(t, constants.ParseStatusParsed, h.exporter.got.Status)

	_, err = h.client.ExportCandidates(ctx, &ExportCandidatesRequest{Status: "weird"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	h.exporter.err = errors.New("disk full")
	_, err = h.client.ExportCandidates(ctx, &ExportCandidatesRequest{})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), "disk full")
}

func TestHealthServing(t *testing.T) {
	h := newHarness(t)
	resp, err := grpc_health_v1.NewHealthClient(h.conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: candidateServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRecoveryInterceptor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := recoveryInterceptor(logger)(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(context.Context, any) (any, error) { panic("boom") })
	assert.Equal(t, codes.Internal, status.Code(err))
}
