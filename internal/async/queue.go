package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has begun.
var ErrQueueClosed = errors.New("queue is shut down")

// Job asks for one résumé to be parsed.
type Job struct {
	ResumeID    uuid.UUID
	CandidateID uuid.UUID // informational
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context) error
}

// Runner executes a job. *pipeline.Processor satisfies it.
type Runner interface {
	ProcessResume(ctx context.Context, resumeID uuid.UUID) (uuid.UUID, error)
}
