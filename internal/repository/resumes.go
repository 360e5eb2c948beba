package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/entity"
)

const resumesTable = "resumes"

// resumeColumns excludes content; reads that need the bytes append it.
var resumeColumns = []string{
	"id", "candidate_id", "original_name", "mime_type", "size_bytes", "status", "uploaded_at",
}

type ResumeRepository interface {
	Create(ctx context.Context, r *entity.Resume) error
	// GetByID returns the résumé including its content.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Resume, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.Resume, error)
	ListByStatus(ctx context.Context, status constants.ParseStatus) ([]*entity.Resume, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ParseStatus) error
}

type resumeRepo struct {
	db  Conn
	log *slog.Logger
}

func NewResumeRepository(db Conn, log *slog.Logger) ResumeRepository {
	return &resumeRepo{db: db, log: log}
}

func (r *resumeRepo) Create(ctx context.Context, res *entity.Resume) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.UploadedAt.IsZero() {
		res.UploadedAt = time.Now()
	}
	res.UploadedAt = res.UploadedAt.UTC()
	if res.Status == "" {
		res.Status = constants.ParseStatusPending
	}
	res.SizeBytes = int64(len(res.Content))
	content := res.Content
	if content == nil {
		content = []byte{}
	}

	q, args := entsql.Dialect(r.db.Dialect()).
		Insert(resumesTable).
		Columns(append(append([]string{}, resumeColumns...), "content")...).
		Values(res.ID, res.CandidateID, res.OriginalName, res.MimeType, res.SizeBytes,
			string(res.Status), res.UploadedAt, content).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("resume create failed", "resume_id", res.ID, "candidate_id", res.CandidateID, "err", err)
		return fmt.Errorf("%w: create resume: %w", common.ErrDatabase, err)
	}
	r.log.Info("resume stored", "resume_id", res.ID, "candidate_id", res.CandidateID,
		"name", res.OriginalName, "size", res.SizeBytes)
	return nil
}

func (r *resumeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Resume, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(append(append([]string{}, resumeColumns...), "content")...).
		From(b.Table(resumesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		res    entity.Resume
		status string
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&res.ID, &res.CandidateID, &res.OriginalName,
		&res.MimeType, &res.SizeBytes, &status, &res.UploadedAt, &res.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resume %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("resume get failed", "resume_id", id, "err", err)
		return nil, fmt.Errorf("%w: get resume: %w", common.ErrDatabase, err)
	}
	res.Status = constants.ParseStatus(status)
	res.UploadedAt = res.UploadedAt.UTC()
	return &res, nil
}

func (r *resumeRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.Resume, error) {
	return r.list(ctx, entsql.EQ("candidate_id", candidateID), entsql.Desc("uploaded_at"))
}

func (r *resumeRepo) ListByStatus(ctx context.Context, status constants.ParseStatus) ([]*entity.Resume, error) {
	return r.list(ctx, entsql.EQ("status", string(status)), entsql.Asc("uploaded_at"))
}

func (r *resumeRepo) list(ctx context.Context, where *entsql.Predicate, order string) ([]*entity.Resume, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(resumeColumns...).
		From(b.Table(resumesTable)).
		Where(where).
		OrderBy(order).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.log.Error("resume list failed", "err", err)
		return nil, fmt.Errorf("%w: list resumes: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Resume
	for rows.Next() {
		var (
			res    entity.Resume
			status string
		)
		if err := rows.Scan(&res.ID, &res.CandidateID, &res.OriginalName, &res.MimeType,
			&res.SizeBytes, &status, &res.UploadedAt); err != nil {
			return nil, fmt.Errorf("%w: scan resume: %w", common.ErrDatabase, err)
		}
		res.Status = constants.ParseStatus(status)
		res.UploadedAt = res.UploadedAt.UTC()
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list resumes: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func (r *resumeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ParseStatus) error {
	q, args := entsql.Dialect(r.db.Dialect()).
		Update(resumesTable).
		Set("status", string(status)).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.Error("resume update status failed", "resume_id", id, "err", err)
		return fmt.Errorf("%w: update resume status: %w", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("resume %s: %w", id, common.ErrNotFound)
	}
	return nil
}
