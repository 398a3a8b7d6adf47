package graph

import "iter"

// Arc is a single (source, destination) pair as consumed by ArcListGraph
// and produced by transform's batch merges.
type Arc struct {
	U, V NodeID
}

// ArcListGraph exhibits a list of arcs, sorted by source and (if the
// caller also sorted within each source) by destination, as a
// Sequential. Grounded directly on
// original_source/webgraph/src/graphs/arc_list_graph.rs's Iter/Succ pair:
// a single cursor into the sorted arc slice is advanced past exactly the
// arcs belonging to each node in turn.
type ArcListGraph struct {
	numNodes uint64
	arcs     []Arc
}

// NewArcListGraph wraps a slice of arcs sorted by source (ties broken by
// destination) as a graph over [0, numNodes).
func NewArcListGraph(numNodes uint64, arcs []Arc) *ArcListGraph {
	return &ArcListGraph{numNodes: numNodes, arcs: arcs}
}

func (g *ArcListGraph) NumNodes() uint64 { return g.numNodes }

// Iterator returns a fresh Sequential lender starting at node 0.
func (g *ArcListGraph) Iterator() Sequential {
	return &arcListIter{g: g, cursor: 0, node: ^NodeID(0)}
}

func (g *ArcListGraph) SplitIter(k int) []Sequential {
	return splitArcListBySource(g, k)
}

type arcListIter struct {
	g      *ArcListGraph
	cursor int
	node   NodeID
}

func (it *arcListIter) NextNode() bool {
	if it.node != ^NodeID(0) && it.node+1 >= it.g.numNodes {
		return false
	}
	if it.node == ^NodeID(0) {
		it.node = 0
	} else {
		it.node++
	}
	// Discard any residual arcs belonging to nodes we've already passed
	// (can happen if the caller starts mid-stream via splitting).
	for it.cursor < len(it.g.arcs) && it.g.arcs[it.cursor].U < it.node {
		it.cursor++
	}
	return true
}

func (it *arcListIter) Node() NodeID { return it.node }

func (it *arcListIter) Successors() iter.Seq[NodeID] {
	node := it.node
	return func(yield func(NodeID) bool) {
		for it.cursor < len(it.g.arcs) && it.g.arcs[it.cursor].U == node {
			if !yield(it.g.arcs[it.cursor].V) {
				return
			}
			it.cursor++
		}
	}
}

func (it *arcListIter) Err() error { return nil }

func splitArcListBySource(g *ArcListGraph, k int) []Sequential {
	if k < 1 {
		k = 1
	}
	parts := make([]Sequential, 0, k)
	chunk := (g.numNodes + uint64(k) - 1) / uint64(k)
	if chunk == 0 {
		chunk = 1
	}
	lo := uint64(0)
	for lo < g.numNodes {
		hi := lo + chunk
		if hi > g.numNodes {
			hi = g.numNodes
		}
		start, end := arcRangeForNodes(g.arcs, lo, hi)
		parts = append(parts, &arcRangeIter{
			arcs: g.arcs[start:end], lo: lo, hi: hi, node: lo, cursor: 0, started: false,
		})
		lo = hi
	}
	return parts
}

// arcRangeForNodes finds the [start, end) slice bounds within a
// source-sorted arc list covering nodes [lo, hi) via binary search.
func arcRangeForNodes(arcs []Arc, lo, hi uint64) (int, int) {
	start := searchArcs(arcs, lo)
	end := searchArcs(arcs, hi)
	return start, end
}

func searchArcs(arcs []Arc, u uint64) int {
	i, j := 0, len(arcs)
	for i < j {
		m := (i + j) / 2
		if arcs[m].U < u {
			i = m + 1
		} else {
			j = m
		}
	}
	return i
}

type arcRangeIter struct {
	arcs    []Arc
	lo, hi  uint64
	node    uint64
	cursor  int
	started bool
}

func (it *arcRangeIter) NextNode() bool {
	if !it.started {
		it.started = true
		it.node = it.lo
	} else {
		it.node++
	}
	if it.node >= it.hi {
		return false
	}
	for it.cursor < len(it.arcs) && it.arcs[it.cursor].U < it.node {
		it.cursor++
	}
	return true
}

func (it *arcRangeIter) Node() NodeID { return it.node }

func (it *arcRangeIter) Successors() iter.Seq[NodeID] {
	node := it.node
	return func(yield func(NodeID) bool) {
		for it.cursor < len(it.arcs) && it.arcs[it.cursor].U == node {
			if !yield(it.arcs[it.cursor].V) {
				return
			}
			it.cursor++
		}
	}
}

func (it *arcRangeIter) Err() error { return nil }
