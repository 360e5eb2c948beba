package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProcessorQueue is a bounded worker pool in front of a Runner.
type ProcessorQueue struct {
	runner  Runner
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	stop     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	closed   bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithProcessTimeout bounds each run. Zero disables the deadline.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d >= 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(runner Runner, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		runner:  runner,
		logger:  logger.With("component", "queue"),
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
		stop:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	log := q.logger.With("worker_id", workerID, "resume_id", job.ResumeID, "trace_id", job.TraceID)

	var (
		extractionID uuid.UUID
		err          error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("worker panic: %v", r)
			}
		}()
		extractionID, err = q.runner.ProcessResume(ctx, job.ResumeID)
	}()

	if err != nil {
		log.Error("processing failed", "error", err, "waited", waited(job))
		return
	}
	log.Info("processed resume successfully", "extraction_id", extractionID, "waited", waited(job))
}

func waited(job Job) time.Duration {
	if job.SubmittedAt.IsZero() {
		return 0
	}
	return time.Since(job.SubmittedAt)
}

// Enqueue blocks while the queue is full until there is room, ctx ends, or Shutdown begins.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "resume_id", job.ResumeID)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	select {
	case q.ch <- job:
		q.logger.Info("queued resume for processing", "resume_id", job.ResumeID, "candidate_id", job.CandidateID)
		return nil
	default:
	}

	q.logger.Warn("queue full, applying backpressure", "resume_id", job.ResumeID, "depth", len(q.ch))
	select {
	case q.ch <- job:
		q.logger.Info("queued resume for processing", "resume_id", job.ResumeID, "candidate_id", job.CandidateID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.stop:
		return ErrQueueClosed
	}
}

// Pending reports jobs waiting for a worker.
func (q *ProcessorQueue) Pending() int {
	return len(q.ch)
}

// Shutdown stops accepting jobs and waits for queued ones to finish or ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) error {
	q.stopOnce.Do(func() { close(q.stop) })

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context", "pending", len(q.ch))
		return ctx.Err()
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
		return nil
	}
}
