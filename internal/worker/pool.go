// Package worker runs detached tasks on a small shared goroutine pool and
// hands callers an Operation to observe each result.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pool errors.
var (
	ErrQueueFull    = errors.New("worker queue is full")
	ErrPoolClosed   = errors.New("worker pool is closed")
	ErrTaskPanicked = errors.New("task panicked")
)

// Task is a unit of work run on the pool. ctx is cancelled when the pool is
// closed with an expired deadline.
type Task func(ctx context.Context) error

type job struct {
	op *Operation
	fn Task
}

// Pool is a fixed set of workers fed by a bounded queue. Submit never blocks.
type Pool struct {
	mu     sync.Mutex
	closed bool
	tasks  chan job

	g      errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool starts workers goroutines sharing a queue of the given capacity.
// Values below 1 are raised to 1.
func NewPool(workers, queue int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan job, queue),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		p.g.Go(p.loop)
	}
	return p
}

// Submit enqueues fn and returns its Operation. When the queue is full or the
// pool is closed the returned Operation is already finished with
// ErrQueueFull or ErrPoolClosed.
func (p *Pool) Submit(kind string, fn Task) *Operation {
	op := newOperation(kind)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		op.finish(ErrPoolClosed)
		return op
	}
	select {
	case p.tasks <- job{op: op, fn: fn}:
		p.logger.Debug("task queued", "kind", kind, "op", op.ID)
	default:
		op.finish(ErrQueueFull)
	}
	return op
}

// Close stops accepting tasks and waits for queued ones to finish. If ctx
// expires first, the pool context is cancelled and ctx.Err() is returned;
// running tasks still finish their Operations.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.g.Wait() }()

	select {
	case err := <-done:
		p.cancel()
		return err
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) loop() error {
	for j := range p.tasks {
		p.run(j)
	}
	return nil
}

// run executes one job, converting a panic into ErrTaskPanicked.
func (p *Pool) run(j job) {
	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			p.logger.Error("task panicked", "kind", j.op.Kind, "op", j.op.ID, "panic", r)
		}
		p.logger.Debug("task finished", "kind", j.op.Kind, "op", j.op.ID,
			"elapsed", time.Since(start), "error", err)
		j.op.finish(err)
	}()
	err = j.fn(p.ctx)
}
