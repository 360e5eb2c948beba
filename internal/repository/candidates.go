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
	"github.com/joseph-ayodele/resume-parser/internal/extract"
)

const candidatesTable = "candidates"

var candidateColumns = []string{
	"id", "name", "primary_email", "primary_phone", "latest_company",
	"designation", "extraction_status", "created_at", "updated_at",
}

type CandidateRepository interface {
	Create(ctx context.Context, c *entity.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error)
	List(ctx context.Context) ([]*entity.Candidate, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ParseStatus) error
	// ApplyFields copies the non-empty scalar fields onto the candidate and sets its status.
	ApplyFields(ctx context.Context, id uuid.UUID, fields extract.Fields, status constants.ParseStatus) error
}

type candidateRepo struct {
	db  Conn
	log *slog.Logger
}

func NewCandidateRepository(db Conn, log *slog.Logger) CandidateRepository {
	return &candidateRepo{db: db, log: log}
}

func (r *candidateRepo) Create(ctx context.Context, c *entity.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.CreatedAt
	if c.ExtractionStatus == "" {
		c.ExtractionStatus = constants.ParseStatusPending
	}

	q, args := entsql.Dialect(r.db.Dialect()).
		Insert(candidatesTable).
		Columns(candidateColumns...).
		Values(c.ID, c.Name, c.PrimaryEmail, c.PrimaryPhone, c.LatestCompany,
			c.Designation, string(c.ExtractionStatus), c.CreatedAt, c.UpdatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("candidate create failed", "candidate_id", c.ID, "err", err)
		return fmt.Errorf("%w: create candidate: %w", common.ErrDatabase, err)
	}
	r.log.Debug("candidate created", "candidate_id", c.ID, "status", c.ExtractionStatus)
	return nil
}

func (r *candidateRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(candidateColumns...).
		From(b.Table(candidatesTable)).
		Where(entsql.EQ("id", id)).
		Query()
	c, err := scanCandidate(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("candidate get failed", "candidate_id", id, "err", err)
		return nil, fmt.Errorf("%w: get candidate: %w", common.ErrDatabase, err)
	}
	return c, nil
}

func (r *candidateRepo) List(ctx context.Context) ([]*entity.Candidate, error) {
	b := entsql.Dialect(r.db.Dialect())
	q, args := b.Select(candidateColumns...).
		From(b.Table(candidatesTable)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		r.log.Error("candidate list failed", "err", err)
		return nil, fmt.Errorf("%w: list candidates: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan candidate: %w", common.ErrDatabase, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list candidates: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func (r *candidateRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.ParseStatus) error {
	q, args := entsql.Dialect(r.db.Dialect()).
		Update(candidatesTable).
		Set("extraction_status", string(status)).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", id)).
		Query()
	return r.exec(ctx, id, "update status", q, args)
}

func (r *candidateRepo) ApplyFields(ctx context.Context, id uuid.UUID, fields extract.Fields, status constants.ParseStatus) error {
	u := entsql.Dialect(r.db.Dialect()).
		Update(candidatesTable).
		Set("extraction_status", string(status)).
		Set("updated_at", time.Now().UTC())
	if fields.Name != "" {
		u.Set("name", fields.Name)
	}
	if fields.Email != "" {
		u.Set("primary_email", fields.Email)
	}
	if fields.Phone != "" {
		u.Set("primary_phone", fields.Phone)
	}
	if fields.Company != "" {
		u.Set("latest_company", fields.Company)
	}
	if fields.Designation != "" {
		u.Set("designation", fields.Designation)
	}
	q, args := u.Where(entsql.EQ("id", id)).Query()
	if err := r.exec(ctx, id, "apply fields", q, args); err != nil {
		return err
	}
	r.log.Info("candidate fields applied", "candidate_id", id, "status", status)
	return nil
}

func (r *candidateRepo) exec(ctx context.Context, id uuid.UUID, op, q string, args []any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		r.log.Error("candidate "+op+" failed", "candidate_id", id, "err", err)
		return fmt.Errorf("%w: candidate %s: %w", common.ErrDatabase, op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("candidate %s: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(s rowScanner) (*entity.Candidate, error) {
	var (
		c      entity.Candidate
		status string
	)
	if err := s.Scan(&c.ID, &c.Name, &c.PrimaryEmail, &c.PrimaryPhone, &c.LatestCompany,
		&c.Designation, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ExtractionStatus = constants.ParseStatus(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
