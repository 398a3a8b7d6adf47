package transform

import (
	"github.com/dsnet/webgraph/graph"
)

// Transpose feeds every arc (u, v) of g into a Batcher as (v, u), per
// spec.md §4.5, yielding the reverse graph.
func Transpose(g graph.Sequential, numNodes uint64, batchSize int, codec Codec, dir string) (*graph.ArcListGraph, error) {
	b := NewBatcher(numNodes, batchSize, codec, dir)
	for g.NextNode() {
		u := g.Node()
		for v := range g.Successors() {
			if err := b.Add(v, u); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Err(); err != nil {
		return nil, err
	}
	return b.Finish(false)
}

// Permute applies the permutation perm (perm[u] is u's new id) to every
// arc, emitting (perm[u], perm[v]). len(perm) must equal numNodes.
func Permute(g graph.Sequential, perm []uint64, batchSize int, codec Codec, dir string) (*graph.ArcListGraph, error) {
	numNodes := uint64(len(perm))
	b := NewBatcher(numNodes, batchSize, codec, dir)
	for g.NextNode() {
		u := g.Node()
		pu := perm[u]
		for v := range g.Successors() {
			if err := b.Add(pu, perm[v]); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Err(); err != nil {
		return nil, err
	}
	return b.Finish(false)
}

// Symmetrize emits both (u, v) and (v, u) for every arc (u, v) in g,
// with the final merge deduplicating equal consecutive arcs and
// dropping self-loops, per spec.md §4.5's Symmetrize/Simplify.
func Symmetrize(g graph.Sequential, numNodes uint64, batchSize int, codec Codec, dir string) (*graph.ArcListGraph, error) {
	b := NewBatcher(numNodes, batchSize, codec, dir)
	for g.NextNode() {
		u := g.Node()
		for v := range g.Successors() {
			if err := b.Add(u, v); err != nil {
				return nil, err
			}
			if err := b.Add(v, u); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Err(); err != nil {
		return nil, err
	}
	return b.Finish(true)
}

// Identity returns the identity permutation of size n (π(u) = u), used
// by the permute-identity property test and as a harmless default.
// Supplemented from original_source/webgraph/.../comp/utils.rs, which
// ships the same helper for test symmetry.
func Identity(n uint64) []uint64 {
	perm := make([]uint64, n)
	for i := range perm {
		perm[i] = uint64(i)
	}
	return perm
}

// ComposePermutation returns the permutation equivalent to applying a
// then b: result[u] = b[a[u]]. Used to chain π then π⁻¹ in tests (the
// composition should equal Identity).
func ComposePermutation(a, b []uint64) []uint64 {
	out := make([]uint64, len(a))
	for u, pu := range a {
		out[u] = b[pu]
	}
	return out
}

// InvertPermutation returns π⁻¹ given π.
func InvertPermutation(perm []uint64) []uint64 {
	inv := make([]uint64, len(perm))
	for u, pu := range perm {
		inv[pu] = uint64(u)
	}
	return inv
}
