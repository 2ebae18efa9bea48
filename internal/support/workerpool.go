// Package support collects small widely-used helpers shared by the indexing
// engine: a fixed-size fork/join worker pool, popcount tables, a
// reservoir random sampler, and an assertion helper. None of these are
// domain-specific; they exist so sais, minimizer and radix do not each grow
// their own copy.
package support

import (
	"runtime"
	"sync"
)

// WorkerPool runs up to a fixed number of goroutines per RunRange call,
// one per contiguous shard, and joins them with a sync.WaitGroup. It
// realizes the
// fork/join-per-phase scheduling model: workers operate on disjoint inputs
// and the caller does not observe partial results until Run returns.
type WorkerPool struct {
	n int
}

// NewWorkerPool creates a pool with n workers. n<=0 means runtime.NumCPU().
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &WorkerPool{n: n}
}

// N returns the configured worker count.
func (p *WorkerPool) N() int { return p.n }

// RunRange partitions [0,total) into p.N() near-equal contiguous shards and
// calls fn(shardIndex, lo, hi) for each, once per shard, concurrently. It
// blocks until every shard has completed.
func (p *WorkerPool) RunRange(total int, fn func(shard, lo, hi int)) {
	if total <= 0 {
		return
	}
	n := p.n
	if n > total {
		n = total
	}
	chunk := (total + n - 1) / n
	var wg sync.WaitGroup
	for shard := 0; shard < n; shard++ {
		lo := shard * chunk
		if lo >= total {
			break
		}
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		wg.Add(1)
		go func(shard, lo, hi int) {
			defer wg.Done()
			fn(shard, lo, hi)
		}(shard, lo, hi)
	}
	wg.Wait()
}

// FirstError captures the first non-nil error reported by concurrent
// workers, discarding the rest. Grounded on the teacher's use of
// github.com/grailbio/base/errors.Once in cmd/bio-pamtool/cmd/view.go.
type FirstError struct {
	mu  sync.Mutex
	err error
}

// Set records err if it is the first non-nil error seen.
func (e *FirstError) Set(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

// Err returns the first error recorded, or nil.
func (e *FirstError) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
