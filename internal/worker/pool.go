package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a fixed set of workers executing jobs concurrently.
// The pipeline uses it to fan block-level inference calls out to the
// oracle; the CLI uses it to process documents in parallel. Results
// drain into an internal slice as they complete, so callers may submit
// any number of jobs before calling Wait without blocking on channel
// capacity.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	collectWg  sync.WaitGroup
	mu         sync.Mutex
	collected  []Result
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2), // Buffered to prevent blocking
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.collectWg.Add(1)
	go p.collect()
}

// collect drains the results channel while jobs are still being
// submitted. Without it, workers block sending to a full results
// buffer, the job queue backs up, and Submit deadlocks once the job
// count outgrows the channel capacity.
func (p *Pool) collect() {
	defer p.collectWg.Done()
	for result := range p.results {
		p.mu.Lock()
		p.collected = append(p.collected, result)
		p.mu.Unlock()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit submits a job to the pool for execution
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait waits for all jobs to complete and returns the results. Result
// order follows completion, not submission; callers needing document
// order must reassemble by key.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	p.collectWg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collected
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	p.collectWg.Wait()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
