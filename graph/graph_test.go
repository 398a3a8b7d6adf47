package graph

import (
	"iter"
	"testing"
)

func collect(g Sequential) map[NodeID][]NodeID {
	out := make(map[NodeID][]NodeID)
	for g.NextNode() {
		n := g.Node()
		var succs []NodeID
		for s := range g.Successors() {
			succs = append(succs, s)
		}
		out[n] = succs
	}
	return out
}

func TestArcListGraphIteratesInOrder(t *testing.T) {
	arcs := []Arc{{0, 1}, {0, 2}, {1, 2}, {3, 0}}
	g := NewArcListGraph(4, arcs)
	got := collect(g.Iterator())
	want := map[NodeID][]NodeID{
		0: {1, 2},
		1: {2},
		2: nil,
		3: {0},
	}
	for n := NodeID(0); n < 4; n++ {
		a, b := got[n], want[n]
		if len(a) != len(b) {
			t.Fatalf("node %d: got %v, want %v", n, a, b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("node %d: got %v, want %v", n, a, b)
			}
		}
	}
}

func TestArcListGraphSplitCoversEveryArc(t *testing.T) {
	arcs := []Arc{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {3, 0}, {4, 1}}
	g := NewArcListGraph(5, arcs)
	parts := g.SplitIter(3)
	merged := make(map[NodeID][]NodeID)
	for _, p := range parts {
		for k, v := range collect(p) {
			merged[k] = v
		}
	}
	full := collect(g.Iterator())
	if len(merged) != len(full) {
		t.Fatalf("split covered %d nodes, want %d", len(merged), len(full))
	}
	for n, want := range full {
		got := merged[n]
		if len(got) != len(want) {
			t.Errorf("node %d: got %v, want %v", n, got, want)
		}
	}
}

func TestUnitLabelingMatchesSuccessors(t *testing.T) {
	arcs := []Arc{{0, 1}, {0, 2}}
	g := NewArcListGraph(3, arcs)
	lab := AsUnitLabeling(g.Iterator())
	lab.NextNode()
	var succs []NodeID
	for s := range lab.Labels() {
		succs = append(succs, s)
	}
	if len(succs) != 2 || succs[0] != 1 || succs[1] != 2 {
		t.Errorf("got %v, want [1 2]", succs)
	}
}

type intLabeling struct {
	g    Sequential
	base int
}

func (l *intLabeling) NextNode() bool { return l.g.NextNode() }
func (l *intLabeling) Node() NodeID   { return l.g.Node() }
func (l *intLabeling) Err() error     { return l.g.Err() }
func (l *intLabeling) Labels() iter.Seq2[NodeID, int] {
	return func(yield func(NodeID, int) bool) {
		for s := range l.g.Successors() {
			if !yield(s, l.base+int(s)) {
				return
			}
		}
	}
}

func TestZipPairsEveryArc(t *testing.T) {
	arcs := []Arc{{0, 1}, {0, 2}, {1, 2}}
	g1 := NewArcListGraph(3, arcs)
	g2 := NewArcListGraph(3, arcs)
	left := AsUnitLabeling(g1.Iterator())
	right := &intLabeling{g: g2.Iterator(), base: 100}
	z := NewZip[struct{}, int](left, right)

	var gotPairs []Pair[struct{}, int]
	for z.NextNode() {
		for _, p := range collectPairs(z) {
			gotPairs = append(gotPairs, p)
		}
	}
	if len(gotPairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(gotPairs))
	}
}

func collectPairs(z *Zip[struct{}, int]) []Pair[struct{}, int] {
	var out []Pair[struct{}, int]
	for _, p := range z.Labels() {
		out = append(out, p)
	}
	return out
}
