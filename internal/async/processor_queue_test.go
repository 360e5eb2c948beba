package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	seen    []uuid.UUID
	active  atomic.Int32
	peak    atomic.Int32
	block   chan struct{}
	started chan uuid.UUID
	err     error
	panics  bool
	hasDL   atomic.Bool
}

func (f *fakeRunner) ProcessResume(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if _, ok := ctx.Deadline(); ok {
		f.hasDL.Store(true)
	}
	if f.started != nil {
		f.started <- id
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.seen = append(f.seen, id)
	f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	return uuid.New(), f.err
}

func (f *fakeRunner) processed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestProcessorQueue_ProcessesAndDrains(t *testing.T) {
	r := &fakeRunner{}
	q := NewProcessorQueue(r, quiet(), WithWorkers(3), WithQueueSize(8))

	for i := 0; i < 20; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))
	}
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, 20, r.processed())
	assert.True(t, r.hasDL.Load(), "default timeout applies a deadline")
}

func TestProcessorQueue_BoundsConcurrency(t *testing.T) {
	r := &fakeRunner{block: make(chan struct{}), started: make(chan uuid.UUID, 16)}
	q := NewProcessorQueue(r, quiet(), WithWorkers(2), WithQueueSize(16))

	for i := 0; i < 6; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))
	}
	<-r.started
	<-r.started
	assert.Eventually(t, func() bool { return q.Pending() == 4 }, time.Second, 5*time.Millisecond)
	close(r.block)

	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, int32(2), r.peak.Load())
	assert.Equal(t, 6, r.processed())
}

func TestProcessorQueue_BackpressureHonoursContext(t *testing.T) {
	r := &fakeRunner{block: make(chan struct{}), started: make(chan uuid.UUID, 4)}
	q := NewProcessorQueue(r, quiet(), WithWorkers(1), WithQueueSize(1))
	defer func() {
		close(r.block)
		_ = q.Shutdown(context.Background())
	}()

	require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))
	<-r.started
	require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{ResumeID: uuid.New()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessorQueue_ClosedAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeRunner{}, quiet())
	require.NoError(t, q.Shutdown(context.Background()))
	require.NoError(t, q.Shutdown(context.Background()))

	err := q.Enqueue(context.Background(), Job{ResumeID: uuid.New()})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestProcessorQueue_ShutdownUnblocksWaitingProducers(t *testing.T) {
	r := &fakeRunner{block: make(chan struct{}), started: make(chan uuid.UUID, 4)}
	q := NewProcessorQueue(r, quiet(), WithWorkers(1), WithQueueSize(1))

	require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))
	<-r.started
	require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))

	errCh := make(chan error, 1)
	go func() { errCh <- q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}) }()
	time.Sleep(20 * time.Millisecond)

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- q.Shutdown(context.Background()) }()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked producer was not released")
	}
	close(r.block)
	require.NoError(t, <-shutdownDone)
	assert.Equal(t, 2, r.processed())
}

func TestProcessorQueue_ShutdownRespectsContext(t *testing.T) {
	r := &fakeRunner{block: make(chan struct{}), started: make(chan uuid.UUID, 1)}
	q := NewProcessorQueue(r, quiet(), WithWorkers(1))
	require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))
	<-r.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Shutdown(ctx), context.DeadlineExceeded)
	close(r.block)
}

func TestProcessorQueue_SurvivesFailuresAndPanics(t *testing.T) {
	r := &fakeRunner{err: errors.New("failed"), panics: true}
	q := NewProcessorQueue(r, quiet(), WithWorkers(1), WithProcessTimeout(0))
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{ResumeID: uuid.New()}))
	}
	require.NoError(t, q.Shutdown(context.Background()))
	assert.Equal(t, 3, r.processed())
	assert.False(t, r.hasDL.Load(), "zero timeout disables the deadline")
}
