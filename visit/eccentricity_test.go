package visit

import (
	"testing"

	"github.com/dsnet/webgraph/graph"
)

// This file is the test-only eccentricity/diameter/radius/acyclicity
// helper SPEC_FULL.md §4.6 calls for: enough to exercise the first five
// of spec.md §8's end-to-end scenarios by running Sequential from every node,
// without building a production ExactSumSweep (explicitly out of scope;
// see DESIGN.md).

// eccentricity is the greatest distance from root to any node reachable
// from it.
func eccentricity(g graph.RandomAccess, root graph.NodeID) uint64 {
	s := NewSequential(g.NumNodes())
	var ecc uint64
	_ = s.Run(g, []graph.NodeID{root}, nil, func(e Event) Control {
		if e.Kind == KindVisit && e.Distance > ecc {
			ecc = e.Distance
		}
		return Continue
	})
	return ecc
}

// forwardEccentricities returns eccentricity(v) for every node.
func forwardEccentricities(g graph.RandomAccess) []uint64 {
	out := make([]uint64, g.NumNodes())
	for v := range out {
		out[v] = eccentricity(g, graph.NodeID(v))
	}
	return out
}

// radius is the minimum eccentricity over the vertices from which every
// node of g is reachable (^uint64(0) when there is none), diameter the
// maximum eccentricity over all vertices.
func radiusDiameter(g graph.RandomAccess, eccs []uint64) (radius, diameter uint64) {
	if len(eccs) == 0 {
		return 0, 0
	}
	radius = ^uint64(0)
	for v, e := range eccs {
		if e > diameter {
			diameter = e
		}
		reached := 0
		_ = NewSequential(g.NumNodes()).Run(g, []graph.NodeID{graph.NodeID(v)}, nil, func(ev Event) Control {
			if ev.Kind == KindVisit {
				reached++
			}
			return Continue
		})
		if reached == len(eccs) && e < radius {
			radius = e
		}
	}
	return radius, diameter
}

func transposeMemGraph(g *memGraph) *memGraph {
	t := &memGraph{succ: make([][]graph.NodeID, len(g.succ))}
	for u, succ := range g.succ {
		for _, v := range succ {
			t.succ[v] = append(t.succ[v], graph.NodeID(u))
		}
	}
	return t
}

func TestEccentricityPathGraph(t *testing.T) {
	// scenario 1: path 0 -> 1 -> 2 -> 3
	g := &memGraph{succ: [][]graph.NodeID{
		0: {1}, 1: {2}, 2: {3}, 3: {},
	}}
	fwd := forwardEccentricities(g)
	wantFwd := []uint64{3, 2, 1, 0}
	if !eqSlice(fwd, wantFwd) {
		t.Fatalf("forward eccentricities: want %v got %v", wantFwd, fwd)
	}
	radius, diameter := radiusDiameter(g, fwd)
	if radius != 3 || diameter != 3 {
		t.Fatalf("want radius=3 diameter=3, got radius=%d diameter=%d", radius, diameter)
	}

	bwd := forwardEccentricities(transposeMemGraph(g))
	wantBwd := []uint64{0, 1, 2, 3}
	if !eqSlice(bwd, wantBwd) {
		t.Fatalf("backward eccentricities: want %v got %v", wantBwd, bwd)
	}
}

func TestEccentricityCycleGraph(t *testing.T) {
	// scenario 2: 5-cycle 0 -> 1 -> 2 -> 3 -> 4 -> 0
	g := &memGraph{succ: [][]graph.NodeID{
		0: {1}, 1: {2}, 2: {3}, 3: {4}, 4: {0},
	}}
	fwd := forwardEccentricities(g)
	for v, e := range fwd {
		if e != 4 {
			t.Fatalf("node %d: want eccentricity 4 got %d", v, e)
		}
	}
	radius, diameter := radiusDiameter(g, fwd)
	if radius != 4 || diameter != 4 {
		t.Fatalf("want radius=4 diameter=4, got radius=%d diameter=%d", radius, diameter)
	}
}

func TestEccentricityCompleteDigraph(t *testing.T) {
	// scenario 3: complete digraph on 10 nodes, every ordered pair an arc.
	const n = 10
	g := &memGraph{succ: make([][]graph.NodeID, n)}
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u != v {
				g.succ[u] = append(g.succ[u], graph.NodeID(v))
			}
		}
	}
	fwd := forwardEccentricities(g)
	for v, e := range fwd {
		if e != 1 {
			t.Fatalf("node %d: want eccentricity 1 got %d", v, e)
		}
	}
	radius, diameter := radiusDiameter(g, fwd)
	if radius != 1 || diameter != 1 {
		t.Fatalf("want radius=1 diameter=1, got radius=%d diameter=%d", radius, diameter)
	}
}

func TestEccentricityUndirectedStar(t *testing.T) {
	// scenario 4: star, hub 0, leaves 1,2,3, each edge both directions.
	g := &memGraph{succ: [][]graph.NodeID{
		0: {1, 2, 3},
		1: {0},
		2: {0},
		3: {0},
	}}
	fwd := forwardEccentricities(g)
	radius, diameter := radiusDiameter(g, fwd)
	if diameter != 2 {
		t.Fatalf("want diameter=2, got %d", diameter)
	}
	if radius != 1 {
		t.Fatalf("want radius=1, got %d", radius)
	}
	// node 0 (the hub) must be a radial vertex: the one achieving radius.
	if fwd[0] != 1 {
		t.Fatalf("want hub eccentricity 1, got %d", fwd[0])
	}
}

func TestAcyclicityAndTopologicalOrder(t *testing.T) {
	// scenario 5: (0,1),(0,2),(1,3),(2,3),(3,4) is acyclic.
	g := &memGraph{succ: [][]graph.NodeID{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {4},
		4: {},
	}}
	order, acyclic := topoOrder(g)
	if !acyclic {
		t.Fatalf("expected acyclic graph")
	}
	pos := make(map[graph.NodeID]int)
	for i, v := range order {
		pos[v] = i
	}
	mustPrecede := [][2]graph.NodeID{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 4}}
	for _, p := range mustPrecede {
		if pos[p[0]] >= pos[p[1]] {
			t.Fatalf("want %d before %d in topological order, got positions %d, %d", p[0], p[1], pos[p[0]], pos[p[1]])
		}
	}

	// (0,1),(1,0) is cyclic.
	cyclic := &memGraph{succ: [][]graph.NodeID{
		0: {1},
		1: {0},
	}}
	if _, acyclic := topoOrder(cyclic); acyclic {
		t.Fatalf("expected cyclic graph to be reported as such")
	}
}

// topoOrder runs DFS over every node (as a root, skipping already-
// visited ones) and reads a topological order off Postvisit order
// reversed, reporting acyclic=false the moment a back edge (a Revisit
// of a node still on the DFS stack) is observed.
func topoOrder(g graph.RandomAccess) ([]graph.NodeID, bool) {
	d := NewDFS(g.NumNodes())
	var postorder []graph.NodeID
	acyclic := true
	roots := make([]graph.NodeID, g.NumNodes())
	for i := range roots {
		roots[i] = graph.NodeID(i)
	}
	_ = d.Run(g, roots, nil, func(e Event) Control {
		switch e.Kind {
		case KindPostvisit:
			postorder = append(postorder, e.Node)
		case KindRevisit:
			if d.onStack[e.Node] {
				acyclic = false
				return Stop(nil)
			}
		}
		return Continue
	})
	if !acyclic {
		return nil, false
	}
	order := make([]graph.NodeID, len(postorder))
	for i, v := range postorder {
		order[len(postorder)-1-i] = v
	}
	return order, true
}

func eqSlice(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
