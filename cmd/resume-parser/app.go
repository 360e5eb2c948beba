package main

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/resume-parser/internal/async"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/doctext"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	"github.com/joseph-ayodele/resume-parser/internal/heuristics"
	"github.com/joseph-ayodele/resume-parser/internal/llm"
	"github.com/joseph-ayodele/resume-parser/internal/pipeline"
	"github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/server"
	"github.com/joseph-ayodele/resume-parser/internal/services/candidate"
)

// application is the wired pipeline shared by serve and ingest.
type application struct {
	db         *repository.DB
	queue      *async.ProcessorQueue
	candidates *candidate.Service
	exporter   *export.Service
	closers    []func()
}

func newApplication(ctx context.Context, c *common.Config, logger *slog.Logger) (*application, error) {
	a := &application{}
	ready := false
	defer func() {
		if !ready {
			a.Close()
		}
	}()

	var err error
	a.db, err = server.ConnectDB(ctx, c.Database, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { server.CloseDB(a.db, logger) })

	var aug llm.Augmenter
	if c.LLM.Enabled {
		aug, err = newAugmenter(ctx, c.LLM, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("augmentation enabled", "provider", c.LLM.Provider, "model", aug.Model())
	}

	locker, closeLock, err := newLocker(ctx, c.Lock, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeLock)

	proc := pipeline.NewProcessor(logger, pipeline.Config{
		AugmentEnabled: c.LLM.Enabled,
		AugmentTimeout: c.LLM.Timeout,
	}, pipeline.Deps{
		Resumes:     repository.NewResumeRepository(a.db, logger),
		Extractions: repository.NewExtractionRepository(a.db, logger),
		Text:        doctext.NewExtractor(doctext.Config{Pdftotext: c.Pipeline.Pdftotext}, logger),
		Fields:      heuristics.NewExtractor(),
		Augmenter:   aug,
		Locker:      locker,
	})

	a.queue = async.NewProcessorQueue(proc, logger,
		async.WithWorkers(c.Pipeline.Workers),
		async.WithQueueSize(c.Pipeline.QueueSize),
		async.WithProcessTimeout(c.Pipeline.ProcessTimeout),
	)
	a.candidates = candidate.NewService(candidate.Options{
		DB:             a.db,
		Queue:          a.queue,
		Logger:         logger,
		MaxUploadBytes: c.MaxUploadBytes(),
	})
	a.exporter = export.NewService(
		repository.NewCandidateRepository(a.db, logger),
		repository.NewExtractionRepository(a.db, logger),
		logger,
	)
	ready = true
	return a, nil
}

// Close releases resources in reverse order. The queue must be shut down first.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
