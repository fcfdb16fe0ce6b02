package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/alde/pixelwise/pkg/progress"
)

// Job is a unit of work the pool can process.
type Job interface {
	Process(ctx context.Context) error
	ID() string
}

// Result pairs a job with its outcome.
type Result struct {
	JobID string
	Error error
}

// Pool runs jobs across a fixed set of worker goroutines.
type Pool struct {
	workerCount int
	jobs        chan Job
	results     chan Result
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	progress    *progress.Tracker
}

// NewPool creates a pool with workerCount workers. Zero or negative means
// one worker per CPU.
func NewPool(workerCount int) *Pool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workerCount: workerCount,
		jobs:        make(chan Job, workerCount*2),
		results:     make(chan Result, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// NewPoolWithProgress creates a pool that reports per-worker progress to
// the terminal while it runs.
func NewPoolWithProgress(workerCount, totalJobs int) *Pool {
	pool := NewPool(workerCount)
	pool.progress = progress.NewTracker(pool.workerCount, totalJobs)
	return pool
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains the queue, waits for in-flight jobs and closes the results
// channel.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.cancel()

	if p.progress != nil {
		p.progress.Finish()
	}
}

// ForceStop cancels in-flight jobs and shuts down without draining.
func (p *Pool) ForceStop() {
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Submit enqueues a job. After shutdown begins the job is failed with the
// pool's context error instead of being queued.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	case <-p.ctx.Done():
		p.results <- Result{
			JobID: job.ID(),
			Error: p.ctx.Err(),
		}
	}
}

// Results returns the channel job outcomes arrive on.
func (p *Pool) Results() <-chan Result {
	return p.results
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}

			if p.progress != nil {
				p.progress.UpdateWorker(id, job.ID(), false)
			}

			err := job.Process(p.ctx)

			if p.progress != nil {
				p.progress.UpdateWorker(id, job.ID(), true)
			}

			p.results <- Result{
				JobID: job.ID(),
				Error: err,
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// WorkerCount returns the number of workers in the pool.
func (p *Pool) WorkerCount() int {
	return p.workerCount
}
