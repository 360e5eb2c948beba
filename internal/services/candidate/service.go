// Package candidate implements upload, listing, profile and recovery on top of the pipeline.
package candidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/async"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/entity"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/utils"
)

const (
	uploadMessage     = "Resume uploaded; parsing started."
	interruptedReason = "interrupted"
	noModel           = "n/a"
)

// Service handles candidate business logic.
type Service struct {
	db             repository.Conn
	candidates     repository.CandidateRepository
	resumes        repository.ResumeRepository
	extractions    repository.ExtractionRepository
	queue          async.Queue
	logger         *slog.Logger
	maxUploadBytes int64
}

type Options struct {
	DB             repository.Conn
	Queue          async.Queue
	Logger         *slog.Logger
	MaxUploadBytes int64 // default constants.DefaultMaxUploadMB
}

// NewService creates a new candidate service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = int64(constants.DefaultMaxUploadMB) << 20
	}
	return &Service{
		db:             opts.DB,
		candidates:     repository.NewCandidateRepository(opts.DB, logger),
		resumes:        repository.NewResumeRepository(opts.DB, logger),
		extractions:    repository.NewExtractionRepository(opts.DB, logger),
		queue:          opts.Queue,
		logger:         logger,
		maxUploadBytes: maxBytes,
	}
}

// Upload stores the file, creates a PARSING candidate and résumé, and queues parsing after commit.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	name := filepath.Base(strings.TrimSpace(req.Filename))
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	v := common.NewValidator().
		Field("file.name", name, common.Required, common.MaxLength(255), common.SupportedDocument(req.ContentType)).
		Field("file", req.Content, common.NonEmptyBytes, common.MaxBytes(s.maxUploadBytes))
	if err := v.Error(); err != nil {
		s.logger.Warn("upload rejected", "filename", req.Filename, "size", len(req.Content), "error", v.ErrorMessage())
		return nil, err
	}

	mime := strings.TrimSpace(req.ContentType)
	if mime == "" || mime == "application/octet-stream" {
		mime = constants.MimeForFormat(constants.DetectFormat(name, ""))
	}

	c := &entity.Candidate{ExtractionStatus: constants.ParseStatusParsing}
	r := &entity.Resume{
		OriginalName: name,
		MimeType:     mime,
		Content:      req.Content,
		Status:       constants.ParseStatusParsing,
	}
	err := s.db.WithTx(ctx, func(tx *repository.Tx) error {
		if err := repository.NewCandidateRepository(tx, s.logger).Create(ctx, c); err != nil {
			return err
		}
		r.CandidateID = c.ID
		if err := repository.NewResumeRepository(tx, s.logger).Create(ctx, r); err != nil {
			return err
		}
		tx.OnCommit(func() {
			s.enqueue(ctx, async.Job{
				ResumeID:    r.ID,
				CandidateID: c.ID,
				SubmittedAt: time.Now(),
				TraceID:     req.TraceID,
			})
		})
		return nil
	})
	if err != nil {
		s.logger.Error("upload failed", "filename", name, "error", err)
		return nil, err
	}

	s.logger.Info("resume uploaded", "candidate_id", c.ID, "resume_id", r.ID, "filename", name, "size", r.SizeBytes)
	return &UploadResult{
		CandidateID: c.ID,
		ResumeID:    r.ID,
		Status:      constants.ParseStatusParsing,
		Message:     uploadMessage,
	}, nil
}

// enqueue leaves the résumé PARSING on failure; RecoverPending picks it up later.
func (s *Service) enqueue(ctx context.Context, job async.Job) bool {
	if s.queue == nil {
		s.logger.Warn("no queue configured; resume left pending", "resume_id", job.ResumeID)
		return false
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("enqueue failed for resume", "resume_id", job.ResumeID, "err", err)
		return false
	}
	return true
}

// List returns candidates newest first with masked contact details.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.candidates.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(rows))
	for _, c := range rows {
		out = append(out, Summary{
			ID:               c.ID,
			Name:             c.Name,
			Email:            utils.MaskEmail(c.PrimaryEmail),
			Phone:            utils.MaskPhone(c.PrimaryPhone),
			LatestCompany:    c.LatestCompany,
			Designation:      c.Designation,
			ExtractionStatus: c.ExtractionStatus,
			CreatedAt:        utils.FormatTime(c.CreatedAt),
		})
	}
	return out, nil
}

// Profile returns the candidate with per-field values and confidences from its latest extraction.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	latest, err := s.extractions.Latest(ctx, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return &Profile{
		ID:               c.ID,
		Profile:          buildProfile(c, latest),
		ExtractionStatus: c.ExtractionStatus,
		CreatedAt:        utils.FormatTime(c.CreatedAt),
		UpdatedAt:        utils.FormatTime(c.UpdatedAt),
	}, nil
}

func buildProfile(c *entity.Candidate, ex *entity.Extraction) ProfileFields {
	var (
		fields extract.Fields
		conf   extract.Confidences
	)
	model := noModel
	var extractedAt *string
	if ex != nil {
		fields, conf, model = ex.Fields, ex.Confidence, ex.ModelName
		if ex.CompletedAt != nil {
			ts := utils.FormatTimePtr(ex.CompletedAt)
			extractedAt = &ts
		}
	}
	pack := func(f extract.Field, fallback string) FieldValue {
		v := fields.Get(f)
		if v == "" {
			v = fallback
		}
		return FieldValue{Value: v, Confidence: conf.Score(f)}
	}

	skills := make([]SkillValue, 0, len(fields.Skills))
	skillConf := conf[extract.FieldSkills]
	for _, name := range fields.Skills {
		skills = append(skills, SkillValue{Name: name, Confidence: skillConf.SkillScore(name)})
	}

	return ProfileFields{
		Name:        pack(extract.FieldName, c.Name),
		Email:       FieldValue{Value: c.PrimaryEmail, Confidence: conf.Score(extract.FieldEmail), Masked: utils.MaskEmail(c.PrimaryEmail)},
		Phone:       FieldValue{Value: c.PrimaryPhone, Confidence: conf.Score(extract.FieldPhone), Masked: utils.MaskPhone(c.PrimaryPhone)},
		Company:     pack(extract.FieldCompany, c.LatestCompany),
		Designation: pack(extract.FieldDesignation, c.Designation),
		Skills:      skills,
		ModelName:   model,
		ExtractedAt: extractedAt,
	}
}

// Resumes lists a candidate's uploads newest first, without file content.
func (s *Service) Resumes(ctx context.Context, candidateID uuid.UUID) ([]ResumeSummary, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}
	rows, err := s.resumes.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	out := make([]ResumeSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResumeSummary{
			ID:           r.ID,
			OriginalName: r.OriginalName,
			MimeType:     r.MimeType,
			SizeBytes:    r.SizeBytes,
			Status:       r.Status,
			UploadedAt:   utils.FormatTime(r.UploadedAt),
		})
	}
	return out, nil
}

// RecoverPending fails extractions left STARTED by a previous process and re-queues résumés still PARSING.
func (s *Service) RecoverPending(ctx context.Context) (RecoveryReport, error) {
	var rep RecoveryReport
	n, err := s.FailInterrupted(ctx)
	if err != nil {
		return rep, err
	}
	rep.StaleExtractions = n

	pending, err := s.resumes.ListByStatus(ctx, constants.ParseStatusParsing)
	if err != nil {
		return rep, fmt.Errorf("list pending resumes: %w", err)
	}
	for _, r := range pending {
		if s.enqueue(ctx, async.Job{ResumeID: r.ID, CandidateID: r.CandidateID, SubmittedAt: time.Now(), TraceID: "recovery"}) {
			rep.Requeued++
		} else {
			rep.Failed++
		}
	}
	s.logger.Info("pending resumes recovered", "stale_extractions", rep.StaleExtractions, "requeued", rep.Requeued, "failed", rep.Failed)
	return rep, nil
}

// FailInterrupted marks every STARTED extraction FAILED as "interrupted". Their
// résumés stay PARSING so a later RecoverPending requeues them.
func (s *Service) FailInterrupted(ctx context.Context) (int64, error) {
	n, err := s.extractions.FailStale(ctx, interruptedReason)
	if err != nil {
		return 0, fmt.Errorf("fail stale extractions: %w", err)
	}
	return n, nil
}
