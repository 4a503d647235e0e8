// Package parallel provides parallel execution utilities for the einorm kernels.
package parallel

import (
	"runtime"

	"github.com/gomlx/exceptions"
	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false}
}

// workerPanic carries a value recovered from a worker back to the caller.
type workerPanic struct {
	value any
}

func (p *workerPanic) Error() string {
	return "parallel: worker panicked"
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
//
// Calls of f must not depend on each other. If any call panics, For panics on the
// calling goroutine with the same value, after all started workers finished.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			exception := exceptions.Try(func() {
				for i := start; i < end; i++ {
					f(i)
				}
			})
			if exception != nil {
				return &workerPanic{value: exception}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err.(*workerPanic).value)
	}
}
