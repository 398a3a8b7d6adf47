package visit

import "github.com/dsnet/webgraph/graph"

// nodePred is one frontier entry for ParallelFair: both the node and the
// predecessor it was discovered through, since Fair's callback fires at
// dequeue time (not at discovery), so the predecessor must still be
// known then.
type nodePred struct {
	Node, Pred graph.NodeID
}

// fairFrontier is the same per-worker-slice, lock-free-append, flat-
// iteration shape as Frontier (spec.md §9's "Parallel frontier"), just
// carrying a predecessor alongside each node — the extra memory Fair
// spends relative to LowMem's plain Frontier.
type fairFrontier struct {
	slots [][]nodePred
}

func newFairFrontier(workers int) *fairFrontier {
	if workers < 1 {
		workers = 1
	}
	return &fairFrontier{slots: make([][]nodePred, workers)}
}

func (f *fairFrontier) push(worker int, e nodePred) { f.slots[worker] = append(f.slots[worker], e) }

func (f *fairFrontier) len() int {
	n := 0
	for _, s := range f.slots {
		n += len(s)
	}
	return n
}

func (f *fairFrontier) chunks(k int) [][]nodePred {
	var flat []nodePred
	for _, s := range f.slots {
		flat = append(flat, s...)
	}
	if k < 1 {
		k = 1
	}
	if len(flat) == 0 {
		return nil
	}
	size := (len(flat) + k - 1) / k
	var chunks [][]nodePred
	for i := 0; i < len(flat); i += size {
		end := i + size
		if end > len(flat) {
			end = len(flat)
		}
		chunks = append(chunks, flat[i:end])
	}
	return chunks
}

// ParallelFair implements spec.md §4.6's "Fair" strategy: the current
// frontier is chunked and processed by workers; a node is visited (its
// Visit event fires) when it is extracted from its frontier slot, after
// the whole level has already been discovered — so work per thread is
// roughly equal in node count, though not necessarily in arc count.
// Discovery (the atomic VisitedSet claim) still happens concurrently
// while building the *next* frontier; Visit/Revisit events themselves
// are always emitted from the single driving goroutine, serialized
// between levels, so Callback never needs to be concurrency-safe.
type ParallelFair struct {
	n       uint64
	visited *VisitedSet
	workers int
}

// NewParallelFair allocates a Fair BFS runner over a graph of n nodes,
// using workers goroutines per level (DefaultWorkers() if <= 0).
func NewParallelFair(n uint64, workers int) *ParallelFair {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelFair{n: n, visited: NewVisitedSet(n), workers: workers}
}

// Reset clears the visited set for reuse.
func (p *ParallelFair) Reset() { p.visited.Reset() }

func (p *ParallelFair) Run(g graph.RandomAccess, roots []graph.NodeID, filter Filter, cb Callback) error {
	current := make([]nodePred, 0, len(roots))
	for _, r := range roots {
		if !callFilter(filter, r, r, 0) {
			continue
		}
		if !p.visited.TryClaim(r) {
			continue
		}
		current = append(current, nodePred{Node: r, Pred: r})
	}
	if len(current) == 0 {
		return nil
	}
	if ctrl := cb(Event{Kind: KindInit}); ctrl.shouldStop() {
		return ctrl.err
	}

	distance := uint64(0)
	for len(current) > 0 {
		if ctrl := cb(Event{Kind: KindFrontierSize, Distance: distance, Size: len(current)}); ctrl.shouldStop() {
			return ctrl.err
		}
		for _, e := range current {
			if ctrl := cb(Event{Kind: KindVisit, Node: e.Node, Pred: e.Pred, Distance: distance}); ctrl.shouldStop() {
				return ctrl.err
			}
		}

		next := newFairFrontier(p.workers)
		revisits := make([][]nodePred, p.workers)
		chunkSize := (len(current) + p.workers - 1) / p.workers
		if chunkSize == 0 {
			chunkSize = 1
		}

		pool := NewPool(p.workers)
		var runErr error
		for i := 0; i*chunkSize < len(current); i++ {
			i := i
			lo := i * chunkSize
			hi := lo + chunkSize
			if hi > len(current) {
				hi = len(current)
			}
			chunk := current[lo:hi]
			pool.Submit(func() error {
				for _, e := range chunk {
					succ, err := g.Successors(e.Node)
					if err != nil {
						return err
					}
					for w := range succ {
						if !callFilter(filter, w, e.Node, distance+1) {
							continue
						}
						if p.visited.TryClaim(w) {
							next.push(i, nodePred{Node: w, Pred: e.Node})
						} else {
							revisits[i] = append(revisits[i], nodePred{Node: w, Pred: e.Node})
						}
					}
				}
				return nil
			})
		}
		if err := pool.Close(); err != nil {
			runErr = err
		}
		if runErr != nil {
			return runErr
		}

		for _, rs := range revisits {
			for _, e := range rs {
				if ctrl := cb(Event{Kind: KindRevisit, Node: e.Node, Pred: e.Pred}); ctrl.shouldStop() {
					return ctrl.err
				}
			}
		}

		var flat []nodePred
		for _, s := range next.slots {
			flat = append(flat, s...)
		}
		current = flat
		distance++
	}

	if ctrl := cb(Event{Kind: KindFrontierSize, Distance: distance, Size: 0}); ctrl.shouldStop() {
		return ctrl.err
	}
	if ctrl := cb(Event{Kind: KindDone}); ctrl.shouldStop() {
		return ctrl.err
	}
	return nil
}

// ParallelLowMem implements spec.md §4.6's "Low-memory" strategy: the
// predecessor is known at enqueue time, so it is not carried in the
// frontier (a plain Frontier of NodeIDs, half the memory of Fair's
// nodePred frontier) — the cost is that Visit fires when a node is
// enqueued (discovered) rather than when it is dequeued, so Visit
// events for one level can interleave with discovery work for the
// level before concurrency settles, which is why (like Fair) this
// driver still only calls cb from the single owning goroutine, after
// each level's parallel sweep completes.
type ParallelLowMem struct {
	n       uint64
	visited *VisitedSet
	workers int
}

// NewParallelLowMem allocates a Low-memory BFS runner over a graph of n
// nodes, using workers goroutines per level (DefaultWorkers() if <= 0).
func NewParallelLowMem(n uint64, workers int) *ParallelLowMem {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelLowMem{n: n, visited: NewVisitedSet(n), workers: workers}
}

// Reset clears the visited set for reuse.
func (p *ParallelLowMem) Reset() { p.visited.Reset() }

func (p *ParallelLowMem) Run(g graph.RandomAccess, roots []graph.NodeID, filter Filter, cb Callback) error {
	current := make([]graph.NodeID, 0, len(roots))
	for _, r := range roots {
		if !callFilter(filter, r, r, 0) {
			continue
		}
		if !p.visited.TryClaim(r) {
			continue
		}
		current = append(current, r)
	}
	if len(current) == 0 {
		return nil
	}
	if ctrl := cb(Event{Kind: KindInit}); ctrl.shouldStop() {
		return ctrl.err
	}
	for _, r := range current {
		if ctrl := cb(Event{Kind: KindVisit, Node: r, Pred: r, Distance: 0}); ctrl.shouldStop() {
			return ctrl.err
		}
	}

	distance := uint64(0)
	for len(current) > 0 {
		if ctrl := cb(Event{Kind: KindFrontierSize, Distance: distance, Size: len(current)}); ctrl.shouldStop() {
			return ctrl.err
		}

		next := NewFrontier(p.workers)
		discovered := make([][]nodePred, p.workers)
		revisits := make([][]nodePred, p.workers)
		chunkSize := (len(current) + p.workers - 1) / p.workers
		if chunkSize == 0 {
			chunkSize = 1
		}

		pool := NewPool(p.workers)
		for i := 0; i*chunkSize < len(current); i++ {
			i := i
			lo := i * chunkSize
			hi := lo + chunkSize
			if hi > len(current) {
				hi = len(current)
			}
			chunk := current[lo:hi]
			pool.Submit(func() error {
				for _, v := range chunk {
					succ, err := g.Successors(v)
					if err != nil {
						return err
					}
					for w := range succ {
						if !callFilter(filter, w, v, distance+1) {
							continue
						}
						if p.visited.TryClaim(w) {
							next.Push(i, w)
							discovered[i] = append(discovered[i], nodePred{Node: w, Pred: v})
						} else {
							revisits[i] = append(revisits[i], nodePred{Node: w, Pred: v})
						}
					}
				}
				return nil
			})
		}
		if err := pool.Close(); err != nil {
			return err
		}

		for _, ds := range discovered {
			for _, e := range ds {
				if ctrl := cb(Event{Kind: KindVisit, Node: e.Node, Pred: e.Pred, Distance: distance + 1}); ctrl.shouldStop() {
					return ctrl.err
				}
			}
		}
		for _, rs := range revisits {
			for _, e := range rs {
				if ctrl := cb(Event{Kind: KindRevisit, Node: e.Node, Pred: e.Pred}); ctrl.shouldStop() {
					return ctrl.err
				}
			}
		}

		current = next.Flatten()
		distance++
	}

	if ctrl := cb(Event{Kind: KindFrontierSize, Distance: distance, Size: 0}); ctrl.shouldStop() {
		return ctrl.err
	}
	if ctrl := cb(Event{Kind: KindDone}); ctrl.shouldStop() {
		return ctrl.err
	}
	return nil
}
