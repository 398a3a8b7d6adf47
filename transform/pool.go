package transform

import (
	"runtime"
	"sync"
)

// errRecover converts a panic in a pooled worker into a returned error
// instead of crashing the process, the same boundary the teacher uses at
// bzip2/common.go's errRecover — except runtime errors (nil dereference,
// index out of range) and panics with a non-error value still propagate,
// since those indicate a bug rather than a recoverable fault.
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

// Pool runs a fixed number of workers against a stream of jobs, joined by
// a WaitGroup, mirroring the worker/WaitGroup/channel shape of
// other_examples' pbzip2 Decompressor (workCh/doneCh plus a pool of
// goroutines draining it) generalized to arbitrary job closures instead
// of fixed decompression blocks. A panic with an error value inside any
// job is recovered via errRecover and surfaces as the error Close returns.
type Pool struct {
	jobs chan func() error
	wg   sync.WaitGroup

	mu      sync.Mutex
	firstErr error
}

// NewPool starts workers goroutines (at least 1), each pulling jobs off
// an internal channel of the given queue depth until Close is called.
func NewPool(workers, queueDepth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < workers {
		queueDepth = workers
	}
	p := &Pool{jobs: make(chan func() error, queueDepth)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.runJob(job)
	}
}

func (p *Pool) runJob(job func() error) {
	var err error
	func() {
		defer errRecover(&err)
		err = job()
	}()
	if err != nil {
		p.recordErr(err)
	}
}

func (p *Pool) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.firstErr == nil {
		p.firstErr = err
	}
}

// Submit enqueues a job, blocking if the queue is full (the pipeline's
// back-pressure: spec.md §5 calls for a bounded channel between decode
// and batch-write stages, not an unbounded work queue).
func (p *Pool) Submit(job func() error) {
	p.jobs <- job
}

// Close stops accepting new jobs, waits for all in-flight jobs to
// finish, and returns the first error (if any) reported by a job.
func (p *Pool) Close() error {
	close(p.jobs)
	p.wg.Wait()
	return p.firstErr
}

// DefaultWorkers returns a worker count sized to the host, mirroring the
// teacher's GOMAXPROCS-derived default parallelism.
func DefaultWorkers() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}
