package emission

import (
	"context"
	"log/slog"
	"sync"
)

// sampleJob is a unit of work for the worker pool: one (direction, time)
// pair, already resolved to concrete geometry.
type sampleJob struct {
	index int
	eval  func() sampleResult
}

// sampleResult is the output of one line-of-sight evaluation.
type sampleResult struct {
	index int
	total float64
	comps []float64 // per component, ordered like the model's component set
	err   error
}

// WorkerPool runs independent line-of-sight evaluations on a fixed number of
// goroutines. Samples share no mutable state, so the pool needs no locking
// beyond the channels.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool with the given number of workers.
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{workers: workers, logger: logger}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int { return wp.workers }

// Run evaluates all jobs and streams results to collect in arbitrary order.
// Returns early if the context is canceled.
func (wp *WorkerPool) Run(ctx context.Context, jobs []sampleJob, collect func(sampleResult)) error {
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan sampleJob, wp.workers*2)
	resCh := make(chan sampleResult, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				select {
				case resCh <- job.eval():
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resCh)
	}()

	for res := range resCh {
		collect(res)
	}

	return ctx.Err()
}
