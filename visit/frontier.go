package visit

import "github.com/dsnet/webgraph/graph"

// Frontier is a bag of per-worker slices that can be appended to
// lock-free (each worker only ever touches its own slot) and later
// iterated as one flat sequence, per spec.md §9's "Parallel frontier":
// "a bag of thread-local vectors that can be iterated as a flat
// sequence without resynchronization and chunked for parallel
// draining". There is no teacher analogue for a frontier specifically,
// so the per-worker-slice-plus-flat-iteration shape is grounded on the
// same Dinic's-algorithm BFS file's per-goroutine level buffers
// (other_examples/4e7d007f_..., which partitions level-building work
// across goroutines without a shared mutex-guarded queue).
type Frontier struct {
	slots [][]graph.NodeID
}

// NewFrontier allocates a Frontier with one slot per worker.
func NewFrontier(workers int) *Frontier {
	if workers < 1 {
		workers = 1
	}
	return &Frontier{slots: make([][]graph.NodeID, workers)}
}

// Push appends node to worker's own slot. Safe to call concurrently
// from different workers, each with a distinct worker index.
func (f *Frontier) Push(worker int, node graph.NodeID) {
	f.slots[worker] = append(f.slots[worker], node)
}

// Len returns the total number of nodes across every slot.
func (f *Frontier) Len() int {
	n := 0
	for _, s := range f.slots {
		n += len(s)
	}
	return n
}

// Chunks copies the frontier into one flat slice (via Flatten) and splits
// it into roughly equal contiguous chunks for parallel draining; a chunk
// may hold nodes from two slots.
func (f *Frontier) Chunks(k int) [][]graph.NodeID {
	flat := f.Flatten()
	if k < 1 {
		k = 1
	}
	if len(flat) == 0 {
		return nil
	}
	size := (len(flat) + k - 1) / k
	var chunks [][]graph.NodeID
	for i := 0; i < len(flat); i += size {
		end := i + size
		if end > len(flat) {
			end = len(flat)
		}
		chunks = append(chunks, flat[i:end])
	}
	return chunks
}

// Flatten concatenates every slot into one slice, in slot order.
func (f *Frontier) Flatten() []graph.NodeID {
	var out []graph.NodeID
	for _, s := range f.slots {
		out = append(out, s...)
	}
	return out
}

// Reset empties every slot without releasing their backing arrays, so
// the next level can reuse the allocation.
func (f *Frontier) Reset() {
	for i := range f.slots {
		f.slots[i] = f.slots[i][:0]
	}
}
