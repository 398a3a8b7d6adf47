package visit

import (
	"iter"
	"testing"

	"github.com/dsnet/webgraph/graph"
)

// memGraph is a trivial graph.RandomAccess over adjacency lists, used
// to exercise visit's traversal logic without depending on bvgraph.
type memGraph struct {
	succ [][]graph.NodeID
}

func (g *memGraph) NumNodes() uint64 { return uint64(len(g.succ)) }

func (g *memGraph) Successors(v graph.NodeID) (iter.Seq[graph.NodeID], error) {
	s := g.succ[v]
	return func(yield func(graph.NodeID) bool) {
		for _, w := range s {
			if !yield(w) {
				return
			}
		}
	}, nil
}

var _ graph.RandomAccess = (*memGraph)(nil)

// chain: 0 -> 1 -> 2 -> 3, plus a branch 1 -> 4.
func chainGraph() *memGraph {
	return &memGraph{succ: [][]graph.NodeID{
		0: {1},
		1: {2, 4},
		2: {3},
		3: {},
		4: {},
	}}
}

func distancesFromSequential(t *testing.T, g graph.RandomAccess, root graph.NodeID) map[graph.NodeID]uint64 {
	t.Helper()
	s := NewSequential(g.NumNodes())
	dist := make(map[graph.NodeID]uint64)
	err := s.Run(g, []graph.NodeID{root}, nil, func(e Event) Control {
		if e.Kind == KindVisit {
			dist[e.Node] = e.Distance
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return dist
}

func TestSequentialDistances(t *testing.T) {
	g := chainGraph()
	dist := distancesFromSequential(t, g, 0)
	want := map[graph.NodeID]uint64{0: 0, 1: 1, 2: 2, 3: 3, 4: 2}
	for n, d := range want {
		if dist[n] != d {
			t.Fatalf("node %d: want distance %d got %d", n, d, dist[n])
		}
	}
}

func TestSequentialRevisit(t *testing.T) {
	// diamond: 0 -> 1, 0 -> 2, 1 -> 3, 2 -> 3
	g := &memGraph{succ: [][]graph.NodeID{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {},
	}}
	s := NewSequential(g.NumNodes())
	var revisits int
	err := s.Run(g, []graph.NodeID{0}, nil, func(e Event) Control {
		if e.Kind == KindRevisit {
			revisits++
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if revisits != 1 {
		t.Fatalf("want exactly 1 revisit (node 3 reached twice), got %d", revisits)
	}
}

func TestSequentialFilterPrunes(t *testing.T) {
	g := chainGraph()
	filter := func(node, pred graph.NodeID, distance uint64) bool { return node != 4 }
	s := NewSequential(g.NumNodes())
	visited := make(map[graph.NodeID]bool)
	err := s.Run(g, []graph.NodeID{0}, filter, func(e Event) Control {
		if e.Kind == KindVisit {
			visited[e.Node] = true
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if visited[4] {
		t.Fatalf("node 4 should have been filtered out")
	}
	if !visited[3] {
		t.Fatalf("node 3 should still be reachable via 2")
	}
}

func TestSequentialAllRootsFilteredIsNoOp(t *testing.T) {
	g := chainGraph()
	s := NewSequential(g.NumNodes())
	calls := 0
	err := s.Run(g, []graph.NodeID{0}, func(node, pred graph.NodeID, distance uint64) bool { return false }, func(e Event) Control {
		calls++
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no events when every root is filtered, got %d", calls)
	}
}

func TestSequentialStopEarly(t *testing.T) {
	g := chainGraph()
	s := NewSequential(g.NumNodes())
	sentinelErr := graph.Error("stop requested")
	err := s.Run(g, []graph.NodeID{0}, nil, func(e Event) Control {
		if e.Kind == KindVisit && e.Node == 2 {
			return Stop(sentinelErr)
		}
		return Continue
	})
	if err != sentinelErr {
		t.Fatalf("want sentinel error, got %v", err)
	}
}

func randomDAG(n int, extra int) *memGraph {
	succ := make([][]graph.NodeID, n)
	for i := 0; i < n-1; i++ {
		succ[i] = append(succ[i], graph.NodeID(i+1))
	}
	for i := 0; i < extra && i+2 < n; i++ {
		succ[i] = append(succ[i], graph.NodeID(i+2))
	}
	return &memGraph{succ: succ}
}

func TestParallelFairMatchesSequential(t *testing.T) {
	g := randomDAG(40, 20)
	want := distancesFromSequential(t, g, 0)

	p := NewParallelFair(g.NumNodes(), 4)
	got := make(map[graph.NodeID]uint64)
	err := p.Run(g, []graph.NodeID{0}, nil, func(e Event) Control {
		if e.Kind == KindVisit {
			got[e.Node] = e.Distance
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("want %d nodes visited, got %d", len(want), len(got))
	}
	for n, d := range want {
		if got[n] != d {
			t.Fatalf("node %d: want distance %d got %d", n, d, got[n])
		}
	}
}

func TestParallelLowMemMatchesSequential(t *testing.T) {
	g := randomDAG(40, 20)
	want := distancesFromSequential(t, g, 0)

	p := NewParallelLowMem(g.NumNodes(), 4)
	got := make(map[graph.NodeID]uint64)
	err := p.Run(g, []graph.NodeID{0}, nil, func(e Event) Control {
		if e.Kind == KindVisit {
			got[e.Node] = e.Distance
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("want %d nodes visited, got %d", len(want), len(got))
	}
	for n, d := range want {
		if got[n] != d {
			t.Fatalf("node %d: want distance %d got %d", n, d, got[n])
		}
	}
}

func TestDFSPrevisitPostvisitPairing(t *testing.T) {
	g := chainGraph()
	d := NewDFS(g.NumNodes())
	var order []Event
	err := d.Run(g, []graph.NodeID{0}, nil, func(e Event) Control {
		if e.Kind == KindPrevisit || e.Kind == KindPostvisit {
			order = append(order, e)
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	pre := make(map[graph.NodeID]bool)
	post := make(map[graph.NodeID]bool)
	for _, e := range order {
		if e.Kind == KindPrevisit {
			if post[e.Node] {
				t.Fatalf("node %d previsited after its own postvisit", e.Node)
			}
			pre[e.Node] = true
		} else {
			if !pre[e.Node] {
				t.Fatalf("node %d postvisited before previsit", e.Node)
			}
			post[e.Node] = true
		}
	}
	for n := range g.succ {
		if !pre[graph.NodeID(n)] || !post[graph.NodeID(n)] {
			t.Fatalf("node %d missing previsit/postvisit", n)
		}
	}
}

func TestDFSDetectsBackEdgeAsRevisitWhileOnStack(t *testing.T) {
	// cycle: 0 -> 1 -> 2 -> 0
	g := &memGraph{succ: [][]graph.NodeID{
		0: {1},
		1: {2},
		2: {0},
	}}
	d := NewDFS(g.NumNodes())
	sawBackEdge := false
	err := d.Run(g, []graph.NodeID{0}, nil, func(e Event) Control {
		if e.Kind == KindRevisit && e.Node == 0 {
			sawBackEdge = true
		}
		return Continue
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sawBackEdge {
		t.Fatalf("expected a Revisit event for the 2 -> 0 back edge")
	}
}

func TestVisitedSetClaimIsExclusive(t *testing.T) {
	vs := NewVisitedSet(8)
	if !vs.TryClaim(3) {
		t.Fatalf("first claim should succeed")
	}
	if vs.TryClaim(3) {
		t.Fatalf("second claim of the same id should fail")
	}
	if !vs.IsVisited(3) {
		t.Fatalf("IsVisited should report true after a claim")
	}
	vs.Reset()
	if vs.IsVisited(3) {
		t.Fatalf("IsVisited should report false after Reset")
	}
}
