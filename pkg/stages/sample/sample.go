// Package sample implements the orbit accumulation stage.
package sample

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"github.com/omertuc/bud/pkg/buddha"
	"github.com/omertuc/bud/pkg/pipeline"
	"github.com/omertuc/bud/pkg/ports"
)

// cancelCheckInterval is how many samples a worker draws between context
// checks.
const cancelCheckInterval = 1 << 16

// Stage accumulates escaping orbits into a histogram using a worker pool.
// Each worker owns a private histogram and a seed derived from the input
// seed, so a run is deterministic for a given (seed, workers) pair.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new sample stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("sample")}
}

// Execute runs the accumulation for one channel.
func (s *Stage) Execute(ctx context.Context, input pipeline.SampleInput) (pipeline.SampleResult, error) {
	workers := input.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	s.logger.Debug("Sampling %d points at %d iterations with %d workers",
		input.Samples, input.Iterations, workers)

	perWorker := input.Samples / int64(workers)
	remainder := input.Samples % int64(workers)

	results := make([]*buddha.Histogram, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		samples := perWorker
		if int64(w) < remainder {
			samples++
		}

		wg.Add(1)
		go func(worker int, samples int64) {
			defer wg.Done()
			results[worker] = s.accumulate(ctx, input, worker, samples)
		}(w, samples)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return pipeline.SampleResult{}, err
	}

	total := buddha.NewHistogram(input.Viewport.PixelsX, input.Viewport.PixelsY)
	for w, hist := range results {
		if err := total.Add(hist); err != nil {
			return pipeline.SampleResult{}, err
		}
		s.logger.Debug("Worker %d finished", w)
	}

	return pipeline.SampleResult{Histogram: total}, nil
}

// accumulate is one worker's share of the run. It stops early when the
// context is cancelled; the partial histogram is discarded by Execute.
func (s *Stage) accumulate(ctx context.Context, input pipeline.SampleInput, worker int, samples int64) *buddha.Histogram {
	vp := input.Viewport
	hist := buddha.NewHistogram(vp.PixelsX, vp.PixelsY)
	rng := rand.New(rand.NewSource(input.Seed + int64(worker)))
	visited := make([]complex128, 0, input.Iterations)

	for i := int64(0); i < samples; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return hist
			default:
			}
		}
		visited = buddha.SampleOrbit(vp.Random(rng), input.Iterations, vp, hist, visited)
	}

	return hist
}

var _ pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult] = (*Stage)(nil)
