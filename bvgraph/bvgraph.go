package bvgraph

import (
	"iter"

	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/eliasfano"
	"github.com/dsnet/webgraph/graph"
)

// offsetIndex is the subset of eliasfano.RandomOffsets Graph needs: a
// mapping from node id to the absolute bit offset of its adjacency list.
type offsetIndex interface {
	Position(v uint64) uint64
}

// Graph is a random-access view over a compressed BV bitstream, combining
// an offset index (for O(1)-amortized seeking to any node's list) with a
// seekable word-backed bit reader. It implements graph.RandomAccess, and
// its Iterator method returns a graph.Sequential walk over every node.
//
// Grounded on spec.md §4.1's "memory-backed implementation over a mapped
// u32 slice" and §4.3.6's recursive reference resolution; the ambient
// Reset/constructor shape follows the teacher's stateful reader types.
type Graph struct {
	words []uint32
	off   offsetIndex
	props Properties

	// decode is chosen once, at construction, between decodeListStatic's
	// compile-time-specialized path and decodeList's dynamic
	// CompressionFlags dispatch, per spec.md §4.3.8; see selectDecodeFn.
	decode decodeFn
}

// NewGraph opens a Graph over words (the full bitstream, MSB-first packed)
// using off to locate each node's list, under props.
func NewGraph(words []uint32, off offsetIndex, props Properties) *Graph {
	return &Graph{words: words, off: off, props: props, decode: selectDecodeFn(props.Flags)}
}

// NumNodes implements graph.RandomAccess.
func (g *Graph) NumNodes() uint64 { return g.props.Nodes }

// Successors implements graph.RandomAccess, decoding v's list (and,
// recursively, any reference chain behind it) directly from the
// bitstream.
func (g *Graph) Successors(v uint64) (iter.Seq[graph.NodeID], error) {
	succ, _, err := g.decodeAt(v, 0)
	if err != nil {
		return nil, err
	}
	return func(yield func(graph.NodeID) bool) {
		for _, s := range succ {
			if !yield(s) {
				return
			}
		}
	}, nil
}

// decodeAt decodes node v's list, recursively resolving its reference (if
// any) through further calls to decodeAt. chainDepth counts how many
// references have already been followed to reach this call, bounding
// recursion at props.MaxRefCount, mirroring R_max on the encode side.
func (g *Graph) decodeAt(v uint64, chainDepth int) ([]uint64, int, error) {
	if chainDepth > g.props.MaxRefCount {
		return nil, 0, Error("reference chain exceeds configured maximum depth")
	}
	r := bitio.NewMemReader(g.words)
	if err := r.SetBitPos(g.off.Position(v)); err != nil {
		return nil, 0, err
	}
	return g.decode(r, g.props.WindowSize, g.props.MinIntervalLength, v,
		func(ref uint64) ([]uint64, int, error) {
			return g.decodeAt(ref, chainDepth+1)
		})
}

// graphSeq is the graph.Sequential view over a Graph, walking nodes
// 0..NumNodes()-1 via repeated random-access Successors calls. Unlike
// Decoder, it has no shared window to enforce lender invalidation
// against, since each call to Successors independently decodes and
// returns its own freshly materialized slice.
type graphSeq struct {
	g    *Graph
	next uint64
	cur  []graph.NodeID
	err  error
}

// Iterator returns a graph.Sequential walk over every node in order.
func (g *Graph) Iterator() graph.Sequential {
	return &graphSeq{g: g}
}

func (s *graphSeq) NextNode() bool {
	if s.err != nil || s.next >= s.g.NumNodes() {
		return false
	}
	v := s.next
	s.next++
	succ, _, err := s.g.decodeAt(v, 0)
	if err != nil {
		s.err = err
		return false
	}
	s.cur = succ
	return true
}

func (s *graphSeq) Node() graph.NodeID { return s.next - 1 }

func (s *graphSeq) Successors() iter.Seq[graph.NodeID] {
	succ := s.cur
	return func(yield func(graph.NodeID) bool) {
		for _, v := range succ {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *graphSeq) Err() error { return s.err }

var (
	_ graph.RandomAccess = (*Graph)(nil)
	_ graph.Sequential   = (*graphSeq)(nil)
	_ offsetIndex        = (*eliasfano.Index)(nil)
	_ offsetIndex        = (*eliasfano.PlainIndex)(nil)
)
