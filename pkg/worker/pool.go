package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// pool.go provides a bounded, optionally rate-limited worker pool.

// Pool manages a pool of concurrent workers
type Pool struct {
	maxWorkers int
	sem        chan struct{}
	limiter    *rate.Limiter
	wg         sync.WaitGroup
}

// PoolOption configures a Pool
type PoolOption func(*Pool)

// WithLimiter paces job starts through l
func WithLimiter(l *rate.Limiter) PoolOption {
	return func(p *Pool) {
		p.limiter = l
	}
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(maxWorkers int, opts ...PoolOption) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	p := &Pool{
		maxWorkers: maxWorkers,
		sem:        make(chan struct{}, maxWorkers),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit submits a job to the worker pool
func (p *Pool) Submit(job func()) {
	p.SubmitContext(context.Background(), func(context.Context) error {
		job()
		return nil
	}, nil)
}

// SubmitContext runs job once a worker slot and, if configured, a rate
// token are available. If ctx ends first, the job is skipped and onSkip
// (when non-nil) receives the context error.
func (p *Pool) SubmitContext(ctx context.Context, job func(context.Context) error, onSkip func(error)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			if onSkip != nil {
				onSkip(ctx.Err())
			}
			return
		}
		defer func() { <-p.sem }()

		if err := ctx.Err(); err != nil {
			if onSkip != nil {
				onSkip(err)
			}
			return
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				if onSkip != nil {
					onSkip(err)
				}
				return
			}
		}

		if err := job(ctx); err != nil && onSkip != nil {
			onSkip(err)
		}
	}()
}

// Wait waits for all jobs to complete
func (p *Pool) Wait() {
	p.wg.Wait()
}

// ProcessWithProgress processes items in parallel and reports each finished
// item, successful or not, to progress. Calls to progress are serialized,
// so it may drive a single progress bar.
func ProcessWithProgress[T any, R any](
	ctx context.Context,
	items []T,
	maxWorkers int,
	limiter *rate.Limiter,
	fn func(context.Context, T) (R, error),
	progress func(completed, total int),
) ([]R, []error) {
	pool := NewPool(maxWorkers, WithLimiter(limiter))

	var mu sync.Mutex
	var results []R
	var errors []error
	completed := 0
	total := len(items)

	record := func(result R, err error, ran bool) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errors = append(errors, err)
		} else if ran {
			results = append(results, result)
		}
		if !ran {
			return
		}
		completed++
		if progress != nil {
			progress(completed, total)
		}
	}

	for _, item := range items {
		item := item
		pool.SubmitContext(ctx, func(ctx context.Context) error {
			result, err := fn(ctx, item)
			record(result, err, true)
			return nil
		}, func(err error) {
			var zero R
			record(zero, err, false)
		})
	}

	pool.Wait()
	return results, errors
}
