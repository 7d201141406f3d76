// Package wpool provides the worker-affine dispatch primitives the cache
// needs: a bounded pool that runs blocking I/O off to the side, and a
// Worker abstraction that completions are posted back to so a session's
// own event loop never has a cache callback land on the wrong goroutine.
package wpool

// Job is a unit of work posted to a Worker or submitted to a Pool.
type Job func()

// Worker accepts jobs and runs them one at a time, in the order they
// were posted. A real caller (a network session's own event loop)
// implements Worker directly against its own scheduler; EventLoop below
// is a minimal reference implementation for tests and examples.
type Worker interface {
	// Post enqueues job for execution on this worker. Post never blocks
	// waiting for job to run; it may block briefly if the worker's queue
	// is full.
	Post(job Job)
}

// EventLoop is a Worker backed by one goroutine draining a buffered
// channel in FIFO order. It exists so code that needs "a worker" for
// tests or examples does not have to stand up a real session loop.
type EventLoop struct {
	jobs chan Job
	done chan struct{}
}

// NewEventLoop starts an EventLoop with the given queue capacity and
// begins draining it immediately.
func NewEventLoop(queueCapacity int) *EventLoop {
	el := &EventLoop{
		jobs: make(chan Job, queueCapacity),
		done: make(chan struct{}),
	}
	go el.run()
	return el
}

func (el *EventLoop) run() {
	for {
		select {
		case <-el.done:
			return
		default:
		}
		select {
		case job := <-el.jobs:
			job()
		case <-el.done:
			return
		}
	}
}

// Post implements Worker.
func (el *EventLoop) Post(job Job) {
	select {
	case <-el.done:
		return
	default:
	}
	select {
	case el.jobs <- job:
	case <-el.done:
	}
}

// Close stops the loop. Jobs already queued but not yet run are
// discarded; Close does not wait for an in-flight job to finish.
func (el *EventLoop) Close() {
	close(el.done)
}
