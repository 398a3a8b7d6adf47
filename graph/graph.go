// Package graph defines the sequential and random-access graph
// interfaces (spec.md §4.4, GraphAccess) shared by bvgraph, transform, and
// visit. NodeID is a plain uint64 rather than a newtype: the teacher's own
// packages (e.g. flate's endBlockSym, bzip2's block indices) favor bare
// integer types over wrapper types when no additional invariant needs
// enforcing beyond "it's an index."
package graph

import "iter"

// NodeID identifies a node. Valid node ids for a graph of n nodes are
// [0, n).
type NodeID = uint64

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "graph: " + string(e) }

// Sequential is a streaming lender over a graph's nodes in increasing
// order. Successors returns an iterator that borrows the lender's
// internal buffer: it is invalidated the moment NextNode is called again.
// Go has no borrow checker, so implementations that reuse a buffer across
// nodes must guard against stale use with a generation counter (see
// bvgraph.Decoder for the concrete enforcement).
type Sequential interface {
	// NextNode advances to the next node, returning false once exhausted.
	NextNode() bool
	// Node returns the current node id. Valid only after NextNode
	// returns true.
	Node() NodeID
	// Successors returns the current node's successors in ascending
	// order. The returned sequence is invalidated by the next call to
	// NextNode.
	Successors() iter.Seq[NodeID]
	// Err returns the first error encountered during iteration, if any.
	Err() error
}

// RandomAccess decodes a single node's successors independently of any
// prior iteration state.
type RandomAccess interface {
	// Successors returns v's successors in ascending order.
	Successors(v NodeID) (iter.Seq[NodeID], error)
	// NumNodes returns the number of nodes in the graph.
	NumNodes() uint64
}

// Splittable is implemented by graphs that support partitioning into
// disjoint node-range lenders, the parallelization primitive used by
// transform and visit.
type Splittable interface {
	// SplitIter partitions [0, NumNodes()) into k lenders covering
	// disjoint contiguous node ranges.
	SplitIter(k int) []Sequential
}
