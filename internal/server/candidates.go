package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

// CandidateServiceServer is the server API for resumeparser.v1.CandidateService.
type CandidateServiceServer interface {
	UploadResume(context.Context, *UploadResumeRequest) (*UploadResumeResponse, error)
	ListCandidates(context.Context, *ListCandidatesRequest) (*ListCandidatesResponse, error)
	GetCandidate(context.Context, *GetCandidateRequest) (*GetCandidateResponse, error)
	ExportCandidates(context.Context, *ExportCandidatesRequest) (*ExportCandidatesResponse, error)
}

type CandidateServer struct {
	svc      *candidate.Service
	exporter Exporter
	logger   *slog.Logger
}

var _ CandidateServiceServer = (*CandidateServer)(nil)

func NewCandidateServer(svc *candidate.Service, exporter Exporter, logger *slog.Logger) *CandidateServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidateServer{svc: svc, exporter: exporter, logger: logger}
}

func (s *CandidateServer) UploadResume(ctx context.Context, req *UploadResumeRequest) (*UploadResumeResponse, error) {
	res, err := s.svc.Upload(ctx, candidate.UploadRequest{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Content:     req.Content,
		TraceID:     common.RequestIDFromContext(ctx),
	})
	if err != nil {
		return nil, common.GRPCError(err)
	}
	return &UploadResumeResponse{Result: *res}, nil
}

func (s *CandidateServer) ListCandidates(ctx context.Context, _ *ListCandidatesRequest) (*ListCandidatesResponse, error) {
	out, err := s.svc.List(ctx)
	if err != nil {
		s.logger.Error("list candidates failed", "error", err)
		return nil, common.GRPCError(err)
	}
	return &ListCandidatesResponse{Candidates: out}, nil
}

func (s *CandidateServer) GetCandidate(ctx context.Context, req *GetCandidateRequest) (*GetCandidateResponse, error) {
	id, err := parseCandidateID(req.ID)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.Profile(ctx, id)
	if err != nil {
		return nil, common.GRPCError(err)
	}
	resumes, err := s.svc.Resumes(ctx, id)
	if err != nil {
		return nil, common.GRPCError(err)
	}
	return &GetCandidateResponse{Candidate: p, Resumes: resumes}, nil
}

func parseCandidateID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, common.InvalidArgumentError("id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.InvalidArgumentError("id must be a UUID")
	}
	return id, nil
}
