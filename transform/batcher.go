package transform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dsnet/webgraph/graph"
)

// arcFootprint is the per-arc memory cost MemoryBudget divides by: two
// NodeIDs. The module carries no arc labels (spec.md's graph model is
// unlabeled), so there is no label-size term to add.
const arcFootprint = 16

// MemoryBudget converts a byte budget into an arc-count batch size, per
// spec.md §4.5's "Memory policy": batch size as either an element count
// or a byte budget divided by the per-arc footprint.
func MemoryBudget(bytes int) int {
	n := bytes / arcFootprint
	if n < 1 {
		n = 1
	}
	return n
}

// Batcher buffers arcs up to a batch size, sorts and spills each full
// batch to a temporary file, and merges all spilled batches (plus any
// final partial one) into a single globally sorted graph.ArcListGraph,
// per spec.md §4.5's general ArcPipeline pattern.
type Batcher struct {
	numNodes  uint64
	batchSize int
	codec     Codec
	dir       string

	buf   []arc
	files []string
	seq   int
}

// NewBatcher creates a Batcher for a graph of numNodes nodes, spilling
// batches of at most batchSize arcs to temporary files under dir (an
// empty dir uses os.TempDir) compressed with codec.
func NewBatcher(numNodes uint64, batchSize int, codec Codec, dir string) *Batcher {
	if batchSize < 1 {
		batchSize = 1 << 20
	}
	if codec == nil {
		codec = NoOpCodec{}
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &Batcher{numNodes: numNodes, batchSize: batchSize, codec: codec, dir: dir}
}

// Add appends one arc to the current batch, spilling it once batchSize
// is reached.
func (b *Batcher) Add(u, v uint64) error {
	b.buf = append(b.buf, arc{Src: u, Dst: v})
	if len(b.buf) >= b.batchSize {
		return b.spill()
	}
	return nil
}

func (b *Batcher) spill() error {
	if len(b.buf) == 0 {
		return nil
	}
	path := filepath.Join(b.dir, fmt.Sprintf("wgbatch-%d-%d.tmp", os.Getpid(), b.seq))
	b.seq++
	if err := writeBatchFile(path, b.buf, b.codec); err != nil {
		return err
	}
	b.files = append(b.files, path)
	b.buf = b.buf[:0]
	return nil
}

// Finish merges every spilled batch (and any remaining buffered arcs)
// via LoserTree into one sorted arc-list graph. dedupDropSelfLoops
// implements Symmetrize/Simplify's merge-time policy: equal consecutive
// arcs collapse, and arcs with U == V are dropped.
func (b *Batcher) Finish(dedupDropSelfLoops bool) (*graph.ArcListGraph, error) {
	defer b.cleanup()

	sources := make([]arcSource, 0, len(b.files)+1)
	for _, path := range b.files {
		r, err := openBatchReader(path, b.codec)
		if err != nil {
			return nil, err
		}
		sources = append(sources, r)
	}
	if len(b.buf) > 0 {
		sources = append(sources, newSliceSource(b.buf))
	}
	if len(sources) == 0 {
		return graph.NewArcListGraph(b.numNodes, nil), nil
	}

	tree, err := NewLoserTree(sources)
	if err != nil {
		return nil, err
	}

	var out []graph.Arc
	var prev arc
	havePrev := false
	for {
		a, ok, err := tree.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if dedupDropSelfLoops {
			if a.Src == a.Dst {
				continue
			}
			if havePrev && a == prev {
				continue
			}
		}
		out = append(out, graph.Arc{U: graph.NodeID(a.Src), V: graph.NodeID(a.Dst)})
		prev, havePrev = a, true
	}
	return graph.NewArcListGraph(b.numNodes, out), nil
}

func (b *Batcher) cleanup() {
	for _, path := range b.files {
		os.Remove(path)
	}
	b.files = nil
}
