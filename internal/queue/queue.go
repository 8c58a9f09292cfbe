// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/kizuna/internal/logging"
	"github.com/tomtom215/kizuna/internal/metrics"
)

// DefaultDelay is the spacing between consecutive jobs when none is configured.
const DefaultDelay = 1000 * time.Millisecond

var (
	// ErrStopped settles jobs that were still pending when Serve returned,
	// and jobs enqueued after it returned until Serve is called again.
	ErrStopped = errors.New("request queue stopped")

	// ErrJobPanicked wraps the value recovered from a panicking job.
	ErrJobPanicked = errors.New("job panicked")

	// ErrNilJob is returned for a submission without a job function.
	ErrNilJob = errors.New("nil job")

	errAlreadyServing = errors.New("request queue is already being served")
)

// Job is a deferred upstream call. It is executed exactly once and never
// retried by the queue.
type Job func(ctx context.Context) (any, error)

// Config holds queue configuration. It is read once at construction.
type Config struct {
	// Name labels logs and metrics. Default: "default"
	Name string

	// Delay is the wait between one job's outcome delivery and the next
	// job's start. Default: DefaultDelay
	Delay time.Duration

	// JobTimeout bounds each job through its context. Zero disables it.
	// Jobs must honor ctx for the bound to take effect.
	JobTimeout time.Duration
}

// Stats is a point-in-time view of the queue.
type Stats struct {
	Name       string        `json:"name"`
	Pending    int           `json:"pending"`
	Running    bool          `json:"running"`
	Serving    bool          `json:"serving"`
	Processed  uint64        `json:"processed"`
	Failed     uint64        `json:"failed"`
	Delay      time.Duration `json:"delay_ns"`
	JobTimeout time.Duration `json:"job_timeout_ns"`
}

type task struct {
	id       string
	name     string
	job      Job
	ctx      context.Context
	enqueued time.Time
	handle   *Handle
}

// Queue runs jobs one at a time in FIFO order with a fixed delay between them.
// It implements suture.Service; Serve is the drain loop.
type Queue struct {
	name       string
	delay      time.Duration
	jobTimeout time.Duration

	mu      sync.Mutex
	pending []*task
	running bool
	stopped bool

	wake    chan struct{}
	serving atomic.Bool

	processed atomic.Uint64
	failed    atomic.Uint64
}

// New creates a queue. The drain loop starts when Serve is called.
func New(cfg Config) *Queue {
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.JobTimeout < 0 {
		cfg.JobTimeout = 0
	}
	return &Queue{
		name:       cfg.Name,
		delay:      cfg.Delay,
		jobTimeout: cfg.JobTimeout,
		wake:       make(chan struct{}, 1),
	}
}

// Enqueue appends job to the queue and returns its completion handle.
// Order of Enqueue calls is execution order. After Serve has returned, the
// handle resolves with ErrStopped at once.
func (q *Queue) Enqueue(ctx context.Context, name string, job Job) *Handle {
	id := uuid.New().String()
	h := newHandle(id)
	if job == nil {
		h.resolve(nil, ErrNilJob)
		return h
	}

	t := &task{
		id:       id,
		name:     name,
		job:      job,
		ctx:      context.WithoutCancel(ctx),
		enqueued: time.Now(),
		handle:   h,
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		h.resolve(nil, ErrStopped)
		metrics.RecordQueueJob(q.name, "stopped", 0, 0)
		logging.Ctx(ctx).Debug().
			Str("queue", q.name).
			Str("job_id", id).
			Str("job", name).
			Msg("Job rejected by stopped queue")
		return h
	}
	q.pending = append(q.pending, t)
	depth := len(q.pending)
	q.mu.Unlock()

	metrics.SetQueueDepth(q.name, depth)
	logging.Ctx(ctx).Trace().
		Str("queue", q.name).
		Str("job_id", id).
		Str("job", name).
		Int("depth", depth).
		Msg("Job enqueued")

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return h
}

// Submit enqueues job and waits for its outcome. If ctx ends first, Submit
// returns ctx.Err() and the job still runs in its turn.
func (q *Queue) Submit(ctx context.Context, name string, job Job) (any, error) {
	return q.Enqueue(ctx, name, job).Wait(ctx)
}

// Do is the typed form of Submit.
func Do[T any](ctx context.Context, q *Queue, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	if fn == nil {
		var zero T
		return zero, ErrNilJob
	}
	h := q.Enqueue(ctx, name, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	return Await[T](ctx, h)
}

// Len returns the number of jobs waiting to start.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Delay returns the configured spacing between jobs.
func (q *Queue) Delay() time.Duration {
	return q.delay
}

// Stats returns a snapshot of the queue state.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	pending, running := len(q.pending), q.running
	q.mu.Unlock()

	return Stats{
		Name:       q.name,
		Pending:    pending,
		Running:    running,
		Serving:    q.serving.Load(),
		Processed:  q.processed.Load(),
		Failed:     q.failed.Load(),
		Delay:      q.delay,
		JobTimeout: q.jobTimeout,
	}
}

// String implements fmt.Stringer for suture logging.
func (q *Queue) String() string {
	return "request-queue-" + q.name
}

// Serve runs the drain loop until ctx ends. Jobs still pending at that point
// are rejected with ErrStopped. Only one Serve may run at a time.
func (q *Queue) Serve(ctx context.Context) error {
	q.mu.Lock()
	if !q.serving.CompareAndSwap(false, true) {
		q.mu.Unlock()
		return errAlreadyServing
	}
	q.stopped = false
	q.mu.Unlock()
	defer q.serving.Store(false)

	logging.Info().
		Str("queue", q.name).
		Dur("delay", q.delay).
		Dur("job_timeout", q.jobTimeout).
		Msg("Request queue started")

	for {
		if ctx.Err() != nil {
			return q.stop(ctx)
		}

		t := q.next()
		if t == nil {
			// Idle: block without timers until a submission arrives.
			select {
			case <-ctx.Done():
				return q.stop(ctx)
			case <-q.wake:
				continue
			}
		}

		q.run(ctx, t)

		if !q.pause(ctx) {
			return q.stop(ctx)
		}
	}
}

// next pops the head of the queue and marks the queue as running.
func (q *Queue) next() *task {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return nil
	}
	t := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	q.running = true
	depth := len(q.pending)
	q.mu.Unlock()

	metrics.SetQueueDepth(q.name, depth)
	return t
}

// run executes t and delivers its outcome before returning.
func (q *Queue) run(ctx context.Context, t *task) {
	start := time.Now()
	wait := start.Sub(t.enqueued)

	value, outcome, err := q.execute(ctx, t)
	elapsed := time.Since(start)

	t.handle.resolve(value, err)

	q.mu.Lock()
	q.running = false
	q.mu.Unlock()

	q.processed.Add(1)
	if err != nil {
		q.failed.Add(1)
	}
	metrics.RecordQueueJob(q.name, outcome, wait, elapsed)

	logger := logging.Ctx(t.ctx)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("queue", q.name).
			Str("job_id", t.id).
			Str("job", t.name).
			Str("outcome", outcome).
			Dur("wait", wait).
			Dur("duration", elapsed).
			Msg("Job failed")
		return
	}
	logger.Debug().
		Str("queue", q.name).
		Str("job_id", t.id).
		Str("job", t.name).
		Dur("wait", wait).
		Dur("duration", elapsed).
		Msg("Job completed")
}

// execute runs the job with panic recovery and the per-job deadline.
// The job context is also cancelled when the drain loop stops.
func (q *Queue) execute(ctx context.Context, t *task) (value any, outcome string, err error) {
	var (
		jobCtx context.Context
		cancel context.CancelFunc
	)
	if q.jobTimeout > 0 {
		jobCtx, cancel = context.WithTimeout(t.ctx, q.jobTimeout)
	} else {
		jobCtx, cancel = context.WithCancel(t.ctx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: %s: %v", ErrJobPanicked, t.name, r)
			outcome = "panic"
		}
	}()

	value, err = t.job(jobCtx)
	switch {
	case err == nil:
		outcome = "success"
	case errors.Is(err, context.DeadlineExceeded) && errors.Is(jobCtx.Err(), context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "failure"
	}
	return value, outcome, err
}

// pause waits the configured delay. It returns false if ctx ended first.
func (q *Queue) pause(ctx context.Context) bool {
	timer := time.NewTimer(q.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// stop rejects everything still pending and returns the loop's exit error.
func (q *Queue) stop(ctx context.Context) error {
	q.mu.Lock()
	rejected := q.pending
	q.pending = nil
	q.stopped = true
	q.mu.Unlock()

	for _, t := range rejected {
		t.handle.resolve(nil, ErrStopped)
		metrics.RecordQueueJob(q.name, "stopped", time.Since(t.enqueued), 0)
	}
	metrics.SetQueueDepth(q.name, 0)

	logging.Info().
		Str("queue", q.name).
		Int("rejected", len(rejected)).
		Uint64("processed", q.processed.Load()).
		Msg("Request queue stopped")

	return ctx.Err()
}
