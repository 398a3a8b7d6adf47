package visit

import "github.com/dsnet/webgraph/graph"

// dfsFrame is one stack frame of an iterative DFS: the node being
// explored, its depth, and a cursor into its not-yet-visited successor
// sequence. Grounded on other_examples' Dinic's-algorithm DFS
// (4e7d007f_wllclngn-Tests__23B-adaptive-kyng-dinics-TEST.go.go's
// DFSFrame{vertex, sink, pushed, depth, edgeIdx}), adapted from its
// flow-specific fields to a plain traversal frame.
type dfsFrame struct {
	node  graph.NodeID
	depth uint64
	succ  []graph.NodeID
	next  int
}

// DFS runs an explicit-stack (non-recursive) depth-first search, so
// traversal depth is bounded only by heap memory rather than the Go
// call stack, per spec.md §4.6's closing paragraph ("DFS... for
// topological sort and acyclicity testing"). Previsit fires the first
// time a node is reached, Postvisit once every descendant has been
// explored — the pairing a topological sort reads off in Postvisit
// order, and a back-edge (Revisit of a node already on the current
// stack) signals a cycle.
type DFS struct {
	n       uint64
	visited []bool
	onStack []bool
	stack   []dfsFrame
}

// NewDFS allocates a DFS runner over a graph of n nodes.
func NewDFS(n uint64) *DFS {
	return &DFS{n: n, visited: make([]bool, n), onStack: make([]bool, n)}
}

// Reset clears visited/on-stack state for reuse.
func (d *DFS) Reset() {
	for i := range d.visited {
		d.visited[i] = false
		d.onStack[i] = false
	}
	d.stack = d.stack[:0]
}

// Run performs the DFS from roots in order, calling cb for every event.
// A Revisit event whose node is still on the stack (not yet postvisited)
// indicates a back edge, i.e. a cycle.
func (d *DFS) Run(g graph.RandomAccess, roots []graph.NodeID, filter Filter, cb Callback) error {
	any := false
	for _, r := range roots {
		if d.visited[r] || !callFilter(filter, r, r, 0) {
			continue
		}
		any = true
		if err := d.runOne(g, r, filter, cb); err != nil {
			return err
		}
	}
	if !any {
		return nil
	}
	if ctrl := cb(Event{Kind: KindDone}); ctrl.shouldStop() {
		return ctrl.err
	}
	return nil
}

func (d *DFS) runOne(g graph.RandomAccess, root graph.NodeID, filter Filter, cb Callback) error {
	d.visited[root] = true
	d.onStack[root] = true
	succ, err := collectSuccessors(g, root)
	if err != nil {
		return err
	}
	d.stack = append(d.stack, dfsFrame{node: root, depth: 0, succ: succ})
	if ctrl := cb(Event{Kind: KindPrevisit, Node: root, Pred: root, Distance: 0}); ctrl.shouldStop() {
		return ctrl.err
	}

	for len(d.stack) > 0 {
		top := &d.stack[len(d.stack)-1]
		advanced := false
		for top.next < len(top.succ) {
			w := top.succ[top.next]
			top.next++
			if !callFilter(filter, w, top.node, top.depth+1) {
				continue
			}
			if d.visited[w] {
				if ctrl := cb(Event{Kind: KindRevisit, Node: w, Pred: top.node}); ctrl.shouldStop() {
					return ctrl.err
				}
				continue
			}
			d.visited[w] = true
			d.onStack[w] = true
			wSucc, err := collectSuccessors(g, w)
			if err != nil {
				return err
			}
			d.stack = append(d.stack, dfsFrame{node: w, depth: top.depth + 1, succ: wSucc})
			if ctrl := cb(Event{Kind: KindPrevisit, Node: w, Pred: top.node, Distance: top.depth + 1}); ctrl.shouldStop() {
				return ctrl.err
			}
			advanced = true
			break
		}
		if advanced {
			continue
		}
		d.onStack[top.node] = false
		if ctrl := cb(Event{Kind: KindPostvisit, Node: top.node, Distance: top.depth}); ctrl.shouldStop() {
			return ctrl.err
		}
		d.stack = d.stack[:len(d.stack)-1]
	}
	return nil
}

func collectSuccessors(g graph.RandomAccess, v graph.NodeID) ([]graph.NodeID, error) {
	seq, err := g.Successors(v)
	if err != nil {
		return nil, err
	}
	var out []graph.NodeID
	for w := range seq {
		out = append(out, w)
	}
	return out, nil
}
