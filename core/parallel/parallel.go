// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Workers returns the number of workers Parallelize would start for items.
func Workers(items int) int {
	if items <= 0 {
		return 0
	}
	n := runtime.NumCPU()
	if n > items {
		n = items
	}
	return n
}

// Parallelize divides [0, items) into contiguous chunks, one per worker, and
// calls fn(worker, start, end) for each chunk concurrently. Worker indices are
// dense in [0, Workers(items)), so callers can give each worker a private
// accumulator and merge after Parallelize returns.
func Parallelize(items int, fn func(worker, start, end int)) {
	numWorkers := Workers(items)
	if numWorkers == 0 {
		return
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(w, start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, 0, items) on the calling goroutine when
// items does not exceed threshold, and Parallelize otherwise. It returns the
// number of worker slots the caller must have allocated.
func ParallelizeWithThreshold(items, threshold int, fn func(worker, start, end int)) int {
	if items <= threshold {
		if items > 0 {
			fn(0, 0, items)
		}
		return 1
	}
	Parallelize(items, fn)
	return Workers(items)
}
