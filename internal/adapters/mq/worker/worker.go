// Package worker runs independent jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/ffebridge/pkg/logger"
)

// DefaultSize is the concurrency cap used when none is given.
const DefaultSize = 4

// Handler processes one job. It is called at most once per job; a failed
// job is never retried.
type Handler[J, R any] func(ctx context.Context, job J) (R, error)

// Outcome is the result of the job at Index in the input slice.
type Outcome[R any] struct {
	Index int
	Value R
	Err   error
}

// Observer receives one call per finished job.
type Observer interface {
	ObserveJob(pool string, seconds float64, err error)
}

// Pool holds the fan-out configuration. It keeps no state between runs and
// may be shared.
type Pool struct {
	size     int
	name     string
	logger   logger.Logger
	observer Observer
}

// NewPool creates a pool running at most size jobs at once.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = DefaultSize
	}
	p := &Pool{
		size:   size,
		name:   "worker-pool",
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	return p
}

// Size returns the concurrency cap.
func (p *Pool) Size() int { return p.size }

type job[J any] struct {
	index int
	value J
}

// Run executes h for every job with at most p.Size() in flight and returns
// the outcomes in input order. A job failure is isolated to its outcome.
// When ctx ends, jobs not yet started fail with the context error.
func Run[J, R any](ctx context.Context, p *Pool, jobs []J, h Handler[J, R]) []Outcome[R] {
	out := make([]Outcome[R], len(jobs))
	if len(jobs) == 0 {
		return out
	}

	workers := p.size
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobChan := make(chan job[J], workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			name := p.name + "-" + strconv.Itoa(workerID)
			for j := range jobChan {
				out[j.index] = process(ctx, p, name, j, h)
			}
		}(i)
	}

	for i, v := range jobs {
		select {
		case <-ctx.Done():
			for k := i; k < len(jobs); k++ {
				out[k] = Outcome[R]{Index: k, Err: ctx.Err()}
			}
			close(jobChan)
			wg.Wait()
			return out
		case jobChan <- job[J]{index: i, value: v}:
		}
	}
	close(jobChan)
	wg.Wait()
	return out
}

func process[J, R any](ctx context.Context, p *Pool, workerName string, j job[J], h Handler[J, R]) Outcome[R] {
	start := time.Now()
	value, err := h(ctx, j.value)
	if p.observer != nil {
		p.observer.ObserveJob(p.name, time.Since(start).Seconds(), err)
	}
	if err != nil {
		p.logger.Warn(ctx, "job failed",
			logger.String("worker", workerName),
			logger.Int("index", j.index),
			logger.Error(err))
		return Outcome[R]{Index: j.index, Value: value, Err: fmt.Errorf("job %d: %w", j.index, err)}
	}
	return Outcome[R]{Index: j.index, Value: value}
}
