package coordinator

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/bdwells00/hash/internal/algorithm"
	"github.com/bdwells00/hash/internal/chunker"
	"github.com/bdwells00/hash/internal/digest"
)

// Coordinator orchestrates digest passes over a single file.
type Coordinator struct {
	cfg Config
}

// Config holds coordinator configuration.
type Config struct {
	ChunkSize int64     // bytes per read
	Length    int       // variable-length output size; 0 uses defaults
	Workers   int       // parallel passes in RunAll; <=1 runs sequentially
	Start     time.Time // invocation start, for total/overhead accounting
}

// Summary aggregates the timing of one invocation's passes.
type Summary struct {
	Results  []*digest.Result
	Total    time.Duration
	Overhead time.Duration
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 16 * chunker.BlockSizeFactor
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}

	return &Coordinator{cfg: cfg}
}

// RunSingle digests path with one named algorithm. Lookup failures surface
// before any file is opened.
func (c *Coordinator) RunSingle(name, path string) (*digest.Result, error) {
	desc, err := algorithm.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.runPass(desc, c.cfg.Length, path)
}

// RunAll digests path once per registered algorithm, in table order.
// Each pass independently re-opens and re-reads the file so read and hash
// time stay attributable per algorithm; variable-length algorithms use
// their default output size. On failure the completed results are still
// returned alongside the error, since each pass is independent.
func (c *Coordinator) RunAll(path string) ([]*digest.Result, error) {
	if c.cfg.Workers > 1 {
		return c.runAllParallel(path)
	}

	descriptors := algorithm.List()
	results := make([]*digest.Result, 0, len(descriptors))
	for _, desc := range descriptors {
		result, err := c.runPass(desc, 0, path)
		if err != nil {
			return results, fmt.Errorf("%s: %w", desc.Name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// runAllParallel fans the passes out to a worker pool, one independent
// file handle per algorithm. Passes overlap, so overhead time loses
// meaning in this mode.
func (c *Coordinator) runAllParallel(path string) ([]*digest.Result, error) {
	descriptors := algorithm.List()

	pool := digest.NewPool(c.cfg.Workers)
	pool.Start()
	defer pool.Stop()

	// Submit from a separate goroutine while draining here: the pool's
	// channels are bounded, so queueing every job ahead of the first
	// receive would block once the buffers fill. Submit only fails after
	// Stop, which cannot happen before the drain below completes.
	go func() {
		for i := range descriptors {
			pool.Submit(&digest.Job{
				Descriptor: descriptors[i],
				Path:       path,
				ChunkSize:  c.cfg.ChunkSize,
			})
		}
	}()

	byName := make(map[string]*digest.JobResult, len(descriptors))
	for range descriptors {
		jr := <-pool.Results()
		byName[jr.Algorithm] = jr
	}

	// Report in table order regardless of completion order.
	var errs *multierror.Error
	results := make([]*digest.Result, 0, len(descriptors))
	for _, desc := range descriptors {
		jr := byName[desc.Name]
		if jr.Error != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", desc.Name, jr.Error))
			continue
		}
		results = append(results, jr.Result)
	}
	return results, errs.ErrorOrNil()
}

// Summarize computes total wall-clock time since the configured start and
// the overhead left after subtracting all measured read and hash time.
// Parallel passes overlap in wall time, so overhead is clamped at zero.
func (c *Coordinator) Summarize(results []*digest.Result) Summary {
	total := time.Since(c.cfg.Start)

	var measured time.Duration
	for _, r := range results {
		measured += r.ReadTime + r.HashTime
	}

	overhead := total - measured
	if overhead < 0 {
		overhead = 0
	}

	return Summary{Results: results, Total: total, Overhead: overhead}
}

func (c *Coordinator) runPass(desc algorithm.Descriptor, length int, path string) (*digest.Result, error) {
	src, err := chunker.Open(path, c.cfg.ChunkSize)
	if err != nil {
		return nil, err
	}
	return digest.Run(desc, length, src)
}
