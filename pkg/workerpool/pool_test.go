package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestRunAllCompletesEveryJob(t *testing.T) {
	p := New(4, nil)

	var ran int64
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{
			ID: fmt.Sprintf("job-%d", i),
			Do: func(context.Context) error {
				atomic.AddInt64(&ran, 1)
				return nil
			},
		}
	}

	stats := p.RunAll(context.Background(), jobs)

	if ran != 20 {
		t.Errorf("ran %d jobs, want 20", ran)
	}
	if stats.Completed != 20 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want 20 completed, 0 failed", stats)
	}
}

func TestRunAllCountsFailures(t *testing.T) {
	p := New(2, nil)

	jobs := []Job{
		{ID: "ok", Do: func(context.Context) error { return nil }},
		{ID: "bad", Do: func(context.Context) error { return errors.New("nope") }},
		{ID: "ok2", Do: func(context.Context) error { return nil }},
	}

	stats := p.RunAll(context.Background(), jobs)

	if stats.Completed != 2 {
		t.Errorf("completed = %d, want 2", stats.Completed)
	}
	if stats.Failed != 1 {
		t.Errorf("failed = %d, want 1", stats.Failed)
	}
}

func TestRunAllStopsDispatchOnCancel(t *testing.T) {
	p := New(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{
		{ID: "never", Do: func(context.Context) error { return nil }},
	}

	stats := p.RunAll(ctx, jobs)
	if stats.Submitted != 0 {
		t.Errorf("submitted = %d, want 0 after pre-cancelled context", stats.Submitted)
	}
	if stats.Failed != 1 {
		t.Errorf("failed = %d, want 1 (undispatched job)", stats.Failed)
	}
}
