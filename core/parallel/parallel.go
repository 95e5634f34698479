// Package parallel provides chunked parallel execution helpers for
// data-parallel numeric loops.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) across the available CPU cores and runs
// fn(start, end) on each chunk concurrently, waiting for all chunks.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunk
		end := start + chunk
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially for small inputs and in
// parallel once items exceeds threshold. Goroutine overhead dominates on
// small slices, so callers pick a threshold matching their per-item cost.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
