package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/entity"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

const extractionsTable = "extractions"

var extractionColumns = []string{
	"id", "candidate_id", "resume_id", "raw_text", "fields_json", "confidences_json",
	"model_name", "status", "error_message", "created_at", "completed_at",
}

// SuccessOutcome is everything committed when a run completes.
type SuccessOutcome struct {
	ExtractionID uuid.UUID
	CandidateID  uuid.UUID
	ResumeID     uuid.UUID
	RawText      string
	Result       extract.Result
}

// FailureOutcome marks a run failed. ExtractionID may be uuid.Nil when the run never started.
type FailureOutcome struct {
	ExtractionID uuid.UUID
	CandidateID  uuid.UUID
	ResumeID     uuid.UUID
	Message      string
}

type ExtractionRepository interface {
	Start(ctx context.Context, candidateID, resumeID uuid.UUID, model string) (*entity.Extraction, error)
	// FinishSuccess completes the extraction and updates candidate and résumé in one transaction.
	FinishSuccess(ctx context.Context, out SuccessOutcome) error
	// FinishFailure marks extraction, candidate and résumé FAILED in one transaction.
	FinishFailure(ctx context.Context, out FailureOutcome) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Extraction, error)
	Latest(ctx context.Context, candidateID uuid.UUID) (*entity.Extraction, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.Extraction, error)
	// FailStale fails every extraction still STARTED, returning how many were touched.
	FailStale(ctx context.Context, message string) (int64, error)
}

type extractionRepo struct {
	db  Conn
	log *slog.Logger
}

func NewExtractionRepository(db Conn, log *slog.Logger) ExtractionRepository {
	return &extractionRepo{db: db, log: log}
}

func (r *extractionRepo) Start(ctx context.Context, candidateID, resumeID uuid.UUID, model string) (*entity.Extraction, error) {
	if model == "" {
		model = constants.ModelHeuristics
	}
	e := &entity.Extraction{
		ID:          uuid.New(),
		CandidateID: candidateID,
		ModelName:   model,
		Status:      constants.ExtractionStatusStarted,
		CreatedAt:   time.Now().UTC(),
	}
	var rid any
	if resumeID != uuid.Nil {
		e.ResumeID = &resumeID
		rid = resumeID
	}

	q, args := entsql.Dialect(r.db.Dialect()).
		Insert(extractionsTable).
		Columns("id", "candidate_id", "resume_id", "raw_text", "fields_json", "confidences_json",
			"model_name", "status", "created_at").
		Values(e.ID, candidateID, rid, "", "{}", "{}", model, string(e.Status), e.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("extraction start failed", "candidate_id", candidateID, "resume_id", resumeID, "err", err)
		return nil, fmt.Errorf("%w: start extraction: %w", common.ErrDatabase, err)
	}
	r.log.Info("extraction started", "extraction_id", e.ID, "candidate_id", candidateID, "resume_id", resumeID)
	return e, nil
}

func (r *extractionRepo) FinishSuccess(ctx context.Context, out SuccessOutcome) error {
	fieldsJSON, err := json.Marshal(out.Result.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	confJSON, err := json.Marshal(out.Result.Confidence)
	if err != nil {
		return fmt.Errorf("marshal confidence: %w", err)
	}
	model := out.Result.Model
	if model == "" {
		model = constants.ModelHeuristics
	}

	err = r.db.WithTx(ctx, func(tx *Tx) error {
		q, args := entsql.Dialect(tx.Dialect()).
			Update(extractionsTable).
			Set("raw_text", out.RawText).
			Set("fields_json", string(fieldsJSON)).
			Set("confidences_json", string(confJSON)).
			Set("model_name", model).
			Set("status", string(constants.ExtractionStatusCompleted)).
			Set("completed_at", time.Now().UTC()).
			Where(entsql.And(
				entsql.EQ("id", out.ExtractionID),
				entsql.EQ("status", string(constants.ExtractionStatusStarted)),
			)).
			Query()
		if err := r.execOne(ctx, tx, out.ExtractionID, q, args); err != nil {
			return err
		}
		if err := NewCandidateRepository(tx, r.log).ApplyFields(ctx, out.CandidateID, out.Result.Fields, constants.ParseStatusParsed); err != nil {
			return err
		}
		return NewResumeRepository(tx, r.log).UpdateStatus(ctx, out.ResumeID, constants.ParseStatusParsed)
	})
	if err != nil {
		r.log.Error("extraction finish(COMPLETED) failed", "extraction_id", out.ExtractionID, "err", err)
		return err
	}
	r.log.Info("extraction finished (COMPLETED)", "extraction_id", out.ExtractionID,
		"candidate_id", out.CandidateID, "model", model)
	return nil
}

func (r *extractionRepo) FinishFailure(ctx context.Context, out FailureOutcome) error {
	err := r.db.WithTx(ctx, func(tx *Tx) error {
		if out.ExtractionID != uuid.Nil {
			q, args := entsql.Dialect(tx.Dialect()).
				Update(extractionsTable).
				Set("status", string(constants.ExtractionStatusFailed)).
				Set("error_message", out.Message).
				Where(entsql.And(
					entsql.EQ("id", out.ExtractionID),
					entsql.EQ("status", string(constants.ExtractionStatusStarted)),
				)).
				Query()
			if err := r.execOne(ctx, tx, out.ExtractionID, q, args); err != nil {
				return err
			}
		}
		if out.CandidateID != uuid.Nil {
			if err := NewCandidateRepository(tx, r.log).UpdateStatus(ctx, out.CandidateID, constants.ParseStatusFailed); err != nil {
				return err
			}
		}
		if out.ResumeID != uuid.Nil {
			return NewResumeRepository(tx, r.log).UpdateStatus(ctx, out.ResumeID, constants.ParseStatusFailed)
		}
		return nil
	})
	if err != nil {
		r.log.Error("extraction finish(FAILED) failed", "extraction_id", out.ExtractionID, "err", err)
		return err
	}
	r.log.Warn("extraction finished (FAILED)", "extraction_id", out.ExtractionID,
		"candidate_id", out.CandidateID, "error", out.Message)
	return nil
}

func (r *extractionRepo) execOne(ctx context.Context, c Conn, id uuid.UUID, q string, args []any) error {
	res, err := c.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%w: update extraction: %w", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("extraction %s is not STARTED: %w", id, common.ErrConflict)
	}
	return nil
}

func (r *extractionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Extraction, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(extractionColumns...).
		From(b.Table(extractionsTable)).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanExtraction(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("extraction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get extraction: %w", common.ErrDatabase, err)
	}
	return e, nil
}

func (r *extractionRepo) Latest(ctx context.Context, candidateID uuid.UUID) (*entity.Extraction, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(extractionColumns...).
		From(b.Table(extractionsTable)).
		Where(entsql.EQ("candidate_id", candidateID)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1).
		Query()
	e, err := scanExtraction(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no extraction for candidate %s: %w", candidateID, common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("extraction latest failed", "candidate_id", candidateID, "err", err)
		return nil, fmt.Errorf("%w: latest extraction: %w", common.ErrDatabase, err)
	}
	return e, nil
}

func (r *extractionRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*entity.Extraction, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(extractionColumns...).
		From(b.Table(extractionsTable)).
		Where(entsql.EQ("candidate_id", candidateID)).
		OrderBy(entsql.Desc("created_at")).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list extractions: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Extraction
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan extraction: %w", common.ErrDatabase, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list extractions: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func (r *extractionRepo) FailStale(ctx context.Context, message string) (int64, error) {
	q, args := entsql.Dialect(r.db.Dialect()).
		Update(extractionsTable).
		Set("status", string(constants.ExtractionStatusFailed)).
		Set("error_message", message).
		Where(entsql.EQ("status", string(constants.ExtractionStatusStarted))).
		Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.Error("extraction fail stale failed", "err", err)
		return 0, fmt.Errorf("%w: fail stale extractions: %w", common.ErrDatabase, err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.log.Warn("stale extractions failed", "count", n, "reason", message)
	}
	return n, nil
}

func scanExtraction(s rowScanner) (*entity.Extraction, error) {
	var (
		e           entity.Extraction
		resumeID    uuid.NullUUID
		fieldsJSON  string
		confJSON    string
		status      string
		errMsg      sql.NullString
		completedAt sql.NullTime
	)
	if err := s.Scan(&e.ID, &e.CandidateID, &resumeID, &e.RawText, &fieldsJSON, &confJSON,
		&e.ModelName, &status, &errMsg, &e.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	if resumeID.Valid {
		id := resumeID.UUID
		e.ResumeID = &id
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	if err := json.Unmarshal([]byte(confJSON), &e.Confidence); err != nil {
		return nil, fmt.Errorf("decode confidence: %w", err)
	}
	e.Status = constants.ExtractionStatus(status)
	if errMsg.Valid {
		msg := errMsg.String
		e.ErrorMessage = &msg
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		e.CompletedAt = &t
	}
	return &e, nil
}
