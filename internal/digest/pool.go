package digest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bdwells00/hash/internal/algorithm"
	"github.com/bdwells00/hash/internal/chunker"
)

// Job requests one digest pass over one file. Each job opens its own file
// handle, so jobs never share read state.
type Job struct {
	Descriptor algorithm.Descriptor
	Length     int
	Path       string
	ChunkSize  int64
	Timeout    time.Duration
}

// JobResult is the outcome of one pool job.
type JobResult struct {
	Algorithm string
	Result    *Result
	Duration  time.Duration
	Error     error
}

// Pool runs digest passes in parallel, one algorithm per job. Because the
// workers overlap I/O and hashing, per-pass read and hash times remain
// attributable but program overhead time does not.
type Pool struct {
	workers int
	jobs    chan *Job
	results chan *JobResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a pool with the specified number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    make(chan *Job, workers*2), // Buffer to prevent blocking
		results: make(chan *JobResult, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processJob(job)
		}
	}
}

// processJob runs one full digest pass for a single job.
func (p *Pool) processJob(job *Job) {
	start := time.Now()

	result := &JobResult{
		Algorithm: job.Descriptor.Name,
	}

	ctx := p.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, job.Timeout)
		defer cancel()
	}

	src, err := chunker.Open(job.Path, job.ChunkSize)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		p.sendResult(result)
		return
	}

	run, err := Run(job.Descriptor, job.Length, &ctxSource{ctx: ctx, src: src})
	if err != nil {
		if ctx.Err() != nil {
			result.Error = fmt.Errorf("timeout or cancelled: %w", ctx.Err())
		} else {
			result.Error = err
		}
	} else {
		result.Result = run
	}

	result.Duration = time.Since(start)
	p.sendResult(result)
}

func (p *Pool) sendResult(result *JobResult) {
	select {
	case <-p.ctx.Done():
		return
	case p.results <- result:
	}
}

// Submit submits a job to the pool.
func (p *Pool) Submit(job *Job) error {
	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is stopped")
	case p.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (p *Pool) Results() <-chan *JobResult {
	return p.results
}

// Stop stops the pool and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
	p.cancel()
}

// ctxSource wraps a ChunkSource to respect context cancellation between
// chunks.
type ctxSource struct {
	ctx context.Context
	src ChunkSource
}

func (c *ctxSource) Next() ([]byte, error) {
	select {
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	default:
	}
	return c.src.Next()
}

func (c *ctxSource) ReadTime() time.Duration { return c.src.ReadTime() }

func (c *ctxSource) BytesRead() int64 { return c.src.BytesRead() }

func (c *ctxSource) Close() error { return c.src.Close() }
