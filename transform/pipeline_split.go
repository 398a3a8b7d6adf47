package transform

import (
	"github.com/dsnet/webgraph/graph"
)

// Boundary records, for one partition of a *Split transform, the range
// of destination nodes its arcs cover — spec.md §4.5's "boundary table
// giving, for each partition, the range of destination nodes it
// covers".
type Boundary struct {
	MinDst, MaxDst uint64
	HasArcs        bool
}

// partitionJob is the shape every *Split transform runs per partition:
// consume one Sequential range and return its own sorted arc slice.
type partitionJob func(part graph.Sequential, partNumNodes uint64) ([]graph.Arc, error)

// runSplit partitions src (which must implement graph.Splittable) into
// k ranges, processes each with job concurrently via a Pool (spec.md
// §4.5's "Split variants... processes each partition independently"),
// and merges the k disjoint sorted results with a LoserTree into one
// globally sorted graph.ArcListGraph plus per-partition boundaries.
func runSplit(src graph.Splittable, numNodes uint64, k int, job partitionJob) (*graph.ArcListGraph, []Boundary, error) {
	parts := src.SplitIter(k)
	results := make([][]graph.Arc, len(parts))
	boundaries := make([]Boundary, len(parts))
	errs := make([]error, len(parts))

	pool := NewPool(DefaultWorkers(), len(parts))
	for i, part := range parts {
		i, part := i, part
		pool.Submit(func() error {
			out, err := job(part, numNodes)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = out
			boundaries[i] = boundaryOf(out)
			return nil
		})
	}
	if err := pool.Close(); err != nil {
		return nil, nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	sources := make([]arcSource, 0, len(results))
	for _, out := range results {
		if len(out) == 0 {
			continue
		}
		plain := make([]arc, len(out))
		for i, a := range out {
			plain[i] = arc{Src: uint64(a.U), Dst: uint64(a.V)}
		}
		sources = append(sources, newSliceSource(plain))
	}
	if len(sources) == 0 {
		return graph.NewArcListGraph(numNodes, nil), boundaries, nil
	}

	tree, err := NewLoserTree(sources)
	if err != nil {
		return nil, nil, err
	}
	var merged []graph.Arc
	for {
		a, ok, err := tree.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		merged = append(merged, graph.Arc{U: graph.NodeID(a.Src), V: graph.NodeID(a.Dst)})
	}
	return graph.NewArcListGraph(numNodes, merged), boundaries, nil
}

func boundaryOf(arcs []graph.Arc) Boundary {
	if len(arcs) == 0 {
		return Boundary{}
	}
	b := Boundary{MinDst: uint64(arcs[0].V), MaxDst: uint64(arcs[0].V), HasArcs: true}
	for _, a := range arcs {
		if uint64(a.V) < b.MinDst {
			b.MinDst = uint64(a.V)
		}
		if uint64(a.V) > b.MaxDst {
			b.MaxDst = uint64(a.V)
		}
	}
	return b
}

// sortedArcsFromBatcher drains b.Finish into a plain []graph.Arc slice,
// the common tail of every partitionJob below.
func sortedArcsFromBatcher(b *Batcher, dedup bool) ([]graph.Arc, error) {
	g, err := b.Finish(dedup)
	if err != nil {
		return nil, err
	}
	var out []graph.Arc
	it := g.Iterator()
	for it.NextNode() {
		u := it.Node()
		for v := range it.Successors() {
			out = append(out, graph.Arc{U: u, V: v})
		}
	}
	return out, it.Err()
}

// TransposeSplit is the parallel variant of Transpose: src is
// partitioned by source-node range, each partition transposed
// independently, and the results merged (spec.md §4.5's Split
// variants).
func TransposeSplit(src graph.Splittable, numNodes uint64, k, batchSize int, codec Codec, dir string) (*graph.ArcListGraph, []Boundary, error) {
	return runSplit(src, numNodes, k, func(part graph.Sequential, n uint64) ([]graph.Arc, error) {
		b := NewBatcher(n, batchSize, codec, dir)
		for part.NextNode() {
			u := part.Node()
			for v := range part.Successors() {
				if err := b.Add(v, u); err != nil {
					return nil, err
				}
			}
		}
		if err := part.Err(); err != nil {
			return nil, err
		}
		return sortedArcsFromBatcher(b, false)
	})
}

// PermuteSplit is the parallel variant of Permute.
func PermuteSplit(src graph.Splittable, perm []uint64, k, batchSize int, codec Codec, dir string) (*graph.ArcListGraph, []Boundary, error) {
	numNodes := uint64(len(perm))
	return runSplit(src, numNodes, k, func(part graph.Sequential, n uint64) ([]graph.Arc, error) {
		b := NewBatcher(n, batchSize, codec, dir)
		for part.NextNode() {
			u := part.Node()
			pu := perm[u]
			for v := range part.Successors() {
				if err := b.Add(pu, perm[v]); err != nil {
					return nil, err
				}
			}
		}
		if err := part.Err(); err != nil {
			return nil, err
		}
		return sortedArcsFromBatcher(b, false)
	})
}

// SymmetrizeSplit is the parallel variant of Symmetrize. Deduplication
// and self-loop dropping happen per partition and again at the final
// merge, since a reciprocal arc (v, u) emitted by partition containing u
// can land in a different partition's range.
func SymmetrizeSplit(src graph.Splittable, numNodes uint64, k, batchSize int, codec Codec, dir string) (*graph.ArcListGraph, []Boundary, error) {
	g, boundaries, err := runSplit(src, numNodes, k, func(part graph.Sequential, n uint64) ([]graph.Arc, error) {
		b := NewBatcher(n, batchSize, codec, dir)
		for part.NextNode() {
			u := part.Node()
			for v := range part.Successors() {
				if err := b.Add(u, v); err != nil {
					return nil, err
				}
				if err := b.Add(v, u); err != nil {
					return nil, err
				}
			}
		}
		if err := part.Err(); err != nil {
			return nil, err
		}
		return sortedArcsFromBatcher(b, true)
	})
	if err != nil {
		return nil, nil, err
	}
	return dedupArcListGraph(g), boundaries, nil
}

// dedupArcListGraph collapses equal consecutive arcs and drops
// self-loops from an already source-sorted ArcListGraph, the cleanup
// SymmetrizeSplit needs because reciprocal arcs can cross partition
// boundaries.
func dedupArcListGraph(g *graph.ArcListGraph) *graph.ArcListGraph {
	it := g.Iterator()
	var out []graph.Arc
	var prev graph.Arc
	have := false
	for it.NextNode() {
		u := it.Node()
		for v := range it.Successors() {
			a := graph.Arc{U: u, V: v}
			if a.U == a.V {
				continue
			}
			if have && a == prev {
				continue
			}
			out = append(out, a)
			prev, have = a, true
		}
	}
	return graph.NewArcListGraph(g.NumNodes(), out)
}
