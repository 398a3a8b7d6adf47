package visit

import (
	"runtime"
	"sync"
)

// errRecover converts a panic in a pooled worker into a returned error,
// the same boundary the teacher uses at bzip2/common.go's errRecover:
// runtime errors and panics with a non-error value still propagate (they
// indicate a bug, not a recoverable fault); any other error is captured.
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// Pool is the fixed-size worker pool ParallelFair/ParallelLowMem drain
// frontier chunks on, the same WaitGroup-joined-channel-of-jobs shape as
// transform.Pool (both are grounded on
// other_examples/7ca430f1_cosnicolaou-pbzip2__parallel.go.go's
// goroutine pool): kept as its own type here rather than imported from
// transform, since transform and visit are independent ambient
// concerns (disk batch spilling vs. in-memory graph traversal) that
// happen to need the same small piece of concurrency plumbing.
type Pool struct {
	jobs chan func() error
	wg   sync.WaitGroup

	mu       sync.Mutex
	firstErr error
}

// NewPool starts workers goroutines (at least 1).
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{jobs: make(chan func() error, workers)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		var err error
		func() {
			defer errRecover(&err)
			err = job()
		}()
		if err != nil {
			p.mu.Lock()
			if p.firstErr == nil {
				p.firstErr = err
			}
			p.mu.Unlock()
		}
	}
}

// Submit enqueues a job, blocking if every worker is busy and the queue
// is full.
func (p *Pool) Submit(job func() error) { p.jobs <- job }

// Close stops accepting jobs, waits for in-flight jobs to finish, and
// returns the first error any job reported.
func (p *Pool) Close() error {
	close(p.jobs)
	p.wg.Wait()
	return p.firstErr
}

// DefaultWorkers sizes a pool to the host's available parallelism.
func DefaultWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}
