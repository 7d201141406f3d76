package wpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size goroutine pool for running the cache's blocking
// Redis I/O off the caller's worker. Jobs submitted to a Pool run in no
// particular order relative to each other; ordering per session is the
// caller's job (see cache.Token's own per-token queue).
type Pool struct {
	jobs chan Job
	grp  *errgroup.Group
	stop context.CancelFunc
}

// NewPool starts size worker goroutines, supervised by an errgroup so
// Close can wait for all of them to drain cleanly.
func NewPool(size, queueCapacity int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	grp, grpCtx := errgroup.WithContext(ctx)

	p := &Pool{
		jobs: make(chan Job, queueCapacity),
		grp:  grp,
		stop: cancel,
	}

	for i := 0; i < size; i++ {
		grp.Go(func() error {
			p.loop(grpCtx)
			return nil
		})
	}

	return p
}

func (p *Pool) loop(ctx context.Context) {
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues job for execution by one of the pool's workers. It
// blocks if every worker is busy and the queue is full.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Close signals the workers to stop and waits for all of them to exit;
// a worker finishes the job it is running first. Jobs still sitting in
// the queue may be run or dropped. A job submitted after Close is never
// run, and Submit blocks once the queue is full.
func (p *Pool) Close() error {
	p.stop()
	return p.grp.Wait()
}
