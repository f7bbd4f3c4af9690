// Package workerpool provides a bounded worker pool for fan-out batch work,
// such as priming the risk assessment cache at startup.
package workerpool

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Job is a unit of work identified for logging.
type Job struct {
	ID string
	Do func(ctx context.Context) error
}

// Stats reports the outcome of a batch run.
type Stats struct {
	Submitted int64
	Completed int64
	Failed    int64
}

// Pool runs jobs across a fixed number of workers.
type Pool struct {
	workers int
	logger  *zap.Logger
}

// New creates a pool with the given worker count.
func New(workers int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{workers: workers, logger: logger}
}

// RunAll executes every job, bounded by the pool's worker count, and blocks
// until all jobs finish or ctx is cancelled. Jobs never dispatched because
// ctx was cancelled are counted as failed.
func (p *Pool) RunAll(ctx context.Context, jobs []Job) Stats {
	var completed, failed int64

	jobChan := make(chan Job)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				if err := job.Do(ctx); err != nil {
					atomic.AddInt64(&failed, 1)
					p.logger.Warn("job failed",
						zap.String("job_id", job.ID),
						zap.Error(err))
					continue
				}
				atomic.AddInt64(&completed, 1)
			}
		}()
	}

	submitted := int64(0)
dispatch:
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobChan <- job:
			submitted++
		}
	}
	close(jobChan)
	wg.Wait()

	skipped := int64(len(jobs)) - submitted
	return Stats{
		Submitted: submitted,
		Completed: atomic.LoadInt64(&completed),
		Failed:    atomic.LoadInt64(&failed) + skipped,
	}
}
