// Package pipeline runs a single résumé through text extraction, heuristics,
// optional augmentation and merge, and records the outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/entity"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/llm"
	"github.com/joseph-ayodele/resume-parser/internal/locking"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
)

// Processor coordinates text extraction, field extraction and persistence for one résumé.
type Processor struct {
	logger      *slog.Logger
	cfg         Config
	resumes     repository.ResumeRepository
	extractions repository.ExtractionRepository
	text        extract.TextExtractor
	fields      extract.FieldExtractor
	augmenter   llm.Augmenter
	locker      locking.Locker
}

type Deps struct {
	Resumes     repository.ResumeRepository
	Extractions repository.ExtractionRepository
	Text        extract.TextExtractor
	Fields      extract.FieldExtractor
	Augmenter   llm.Augmenter  // optional
	Locker      locking.Locker // default in-process keyed mutex
}

func NewProcessor(logger *slog.Logger, cfg Config, deps Deps) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Locker == nil {
		deps.Locker = locking.NewKeyedMutex()
	}
	return &Processor{
		logger:      logger,
		cfg:         cfg.withDefaults(),
		resumes:     deps.Resumes,
		extractions: deps.Extractions,
		text:        deps.Text,
		fields:      deps.Fields,
		augmenter:   deps.Augmenter,
		locker:      deps.Locker,
	}
}

// run tracks what has been created so far so failures can be recorded.
type run struct {
	resumeID     uuid.UUID
	candidateID  uuid.UUID
	extractionID uuid.UUID
}

// ProcessResume runs the pipeline for resumeID and returns the extraction ID.
// Every extraction it starts ends COMPLETED or FAILED before it returns.
func (p *Processor) ProcessResume(ctx context.Context, resumeID uuid.UUID) (extractionID uuid.UUID, err error) {
	started := time.Now()
	st := &run{resumeID: resumeID}
	log := p.logger.With("resume_id", resumeID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", common.ErrInternal, r)
			log.Error("pipeline.panic", "panic", r, "stack", string(debug.Stack()))
			p.fail(ctx, log, st, err)
			extractionID = st.extractionID
		}
	}()

	res, err := p.resumes.GetByID(ctx, resumeID)
	if err != nil {
		log.Error("pipeline.load.failed", "err", err)
		if !errors.Is(err, common.ErrNotFound) {
			p.fail(ctx, log, st, err)
		}
		return uuid.Nil, fmt.Errorf("load resume: %w", err)
	}
	st.candidateID = res.CandidateID
	log = log.With("candidate_id", res.CandidateID)

	job, err := p.extractions.Start(ctx, res.CandidateID, res.ID, constants.ModelHeuristics)
	if err != nil {
		log.Error("pipeline.start.failed", "err", err)
		p.fail(ctx, log, st, err)
		return uuid.Nil, err
	}
	st.extractionID = job.ID
	log = log.With("extraction_id", job.ID)

	raw, result, err := p.extract(ctx, log, res)
	if err != nil {
		p.fail(ctx, log, st, err)
		return job.ID, err
	}

	if err := p.commit(ctx, st, raw, result); err != nil {
		log.Error("pipeline.commit.failed", "err", err)
		p.fail(ctx, log, st, err)
		return job.ID, err
	}

	log.Info("pipeline.completed",
		"model", result.Model,
		"fields", populated(result.Fields),
		"duration", time.Since(started),
	)
	return job.ID, nil
}

func (p *Processor) extract(ctx context.Context, log *slog.Logger, res *entity.Resume) (string, extract.Result, error) {
	text, err := p.text.Extract(ctx, extract.Document{
		Data:        res.Content,
		Filename:    res.OriginalName,
		ContentType: res.MimeType,
	})
	if err != nil {
		log.Error("pipeline.text.failed", "err", err)
		return "", extract.Result{}, fmt.Errorf("text extraction: %w", err)
	}
	log.Info("pipeline.text.ok",
		"format", text.Format,
		"method", text.Method,
		"pages", text.Pages,
		"chars", len(text.Text),
		"warnings", len(text.Warnings),
	)

	base, err := p.fields.ExtractFields(ctx, text.Text)
	if err != nil {
		log.Error("pipeline.heuristics.failed", "err", err)
		return "", extract.Result{}, fmt.Errorf("field extraction: %w", err)
	}
	log.Debug("pipeline.heuristics.ok", "fields", populated(base.Fields))

	return text.Text, extract.Merge(base, p.augment(ctx, log, text.Text)), nil
}

// augment never fails the run: errors and panics yield no augmentation.
func (p *Processor) augment(ctx context.Context, log *slog.Logger, text string) (out *extract.Result) {
	if !p.cfg.AugmentEnabled || p.augmenter == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pipeline.augment.panic", "panic", r)
			out = nil
		}
	}()

	if p.cfg.AugmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AugmentTimeout)
		defer cancel()
	}
	aug, err := p.augmenter.Augment(ctx, text)
	if err != nil {
		log.Warn("pipeline.augment.failed", "model", p.augmenter.Model(), "err", err)
		return nil
	}
	if aug == nil {
		log.Info("pipeline.augment.empty", "model", p.augmenter.Model())
		return nil
	}
	log.Info("pipeline.augment.ok", "model", aug.Model, "fields", populated(aug.Fields))
	return aug
}

// commit serializes writers per candidate; the last run to commit owns the canonical fields.
func (p *Processor) commit(ctx context.Context, st *run, raw string, result extract.Result) error {
	unlock, err := p.locker.Lock(ctx, st.candidateID.String())
	if err != nil {
		return fmt.Errorf("lock candidate: %w", err)
	}
	defer unlock()

	return p.extractions.FinishSuccess(ctx, repository.SuccessOutcome{
		ExtractionID: st.extractionID,
		CandidateID:  st.candidateID,
		ResumeID:     st.resumeID,
		RawText:      truncateRunes(raw, p.cfg.MaxStoredTextChars),
		Result:       result,
	})
}

// fail records FAILED on a context that outlives cancellation of the run.
func (p *Processor) fail(ctx context.Context, log *slog.Logger, st *run, cause error) {
	ctx = context.WithoutCancel(ctx)
	err := p.extractions.FinishFailure(ctx, repository.FailureOutcome{
		ExtractionID: st.extractionID,
		CandidateID:  st.candidateID,
		ResumeID:     st.resumeID,
		Message:      cause.Error(),
	})
	if err != nil {
		log.Error("pipeline.fail.record_failed", "cause", cause, "err", err)
		return
	}
	log.Warn("pipeline.failed", "err", cause)
}

func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func populated(f extract.Fields) []string {
	var out []string
	for _, k := range extract.ScalarFields {
		if f.Has(k) {
			out = append(out, string(k))
		}
	}
	if f.Has(extract.FieldSkills) {
		out = append(out, string(extract.FieldSkills))
	}
	return out
}
