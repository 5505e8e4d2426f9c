// Package worker runs download tasks on a fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
	"pagefetch/internal/queue"
)

// TaskExecutor runs a single task to a terminal state.
type TaskExecutor interface {
	Execute(ctx context.Context, task domain.DownloadTask) domain.Outcome
}

// Pool owns a fixed number of workers draining a shared queue.
type Pool struct {
	count    int
	queue    *queue.Queue[domain.DownloadTask]
	executor TaskExecutor
	logger   types.Logger
	metrics  types.Metrics

	wg           sync.WaitGroup
	tallies      []domain.Summary // one slot per worker, read only after wg.Wait
	startOnce    sync.Once
	shutdownOnce sync.Once
	startedAt    time.Time
	summary      domain.Summary
}

// NewPool creates a pool of workers consuming q. A count below 1 is raised to 1.
func NewPool(count int, q *queue.Queue[domain.DownloadTask], executor TaskExecutor, logger types.Logger, metrics types.Metrics) *Pool {
	if count < 1 {
		count = 1
	}

	return &Pool{
		count:    count,
		queue:    q,
		executor: executor,
		logger:   logger,
		metrics:  metrics,
		tallies:  make([]domain.Summary, count),
	}
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.count
}

// Start spawns every worker. Subsequent calls do nothing.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.startedAt = time.Now()
		p.logger.Debug(ctx, "Starting worker pool", types.Fields{"workers": p.count})

		for id := 1; id <= p.count; id++ {
			p.wg.Add(1)
			go p.workerLoop(types.WithWorkerID(ctx, id), id)
		}
	})
}

// Shutdown closes the queue and blocks until every worker has exited, then
// returns the merged tally. Queued tasks are still run before workers exit.
func (p *Pool) Shutdown() domain.Summary {
	p.shutdownOnce.Do(func() {
		p.queue.Close()
		p.wg.Wait()

		var summary domain.Summary
		for _, tally := range p.tallies {
			summary.Merge(tally)
		}
		summary.Workers = p.count
		if !p.startedAt.IsZero() {
			summary.Duration = time.Since(p.startedAt)
		}
		p.summary = summary
	})
	return p.summary
}

func (p *Pool) workerLoop(ctx context.Context, id int) {
	defer p.wg.Done()

	p.metrics.StartOperation("worker")
	defer p.metrics.EndOperation("worker")

	tally := &p.tallies[id-1]
	for {
		task, ok := p.queue.Dequeue()
		if !ok {
			p.logger.Debug(ctx, "Worker exiting", types.Fields{"tasks": tally.Total})
			return
		}
		tally.Add(p.run(ctx, task))
	}
}

// run executes task, converting a panic into an aborted outcome so the worker
// keeps draining the queue.
func (p *Pool) run(ctx context.Context, task domain.DownloadTask) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while downloading %s: %v", task.Source, r)
			outcome = domain.Outcome{
				Task:     task,
				State:    domain.StateAborted,
				Attempts: 1,
				Err:      err,
			}
			p.metrics.RecordError("task", "panic")
			p.logger.Error(ctx, fmt.Sprintf("Download aborted for %s", task.Source), err, nil)
		}
	}()

	return p.executor.Execute(ctx, task)
}
