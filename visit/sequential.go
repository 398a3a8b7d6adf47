package visit

import "github.com/dsnet/webgraph/graph"

// levelSentinel separates distance levels in the single FIFO queue
// Sequential uses, per spec.md §4.6: "a single queue with None sentinels
// separating distance levels, compactly encoded by reserving one
// representational value... so Option<NodeId> has no tag overhead." No
// valid NodeID equals ^graph.NodeID(0), so it doubles as the "no node"
// marker without an extra tag field.
const levelSentinel = ^graph.NodeID(0)

// Sequential runs a single-threaded BFS from roots over a graph,
// calling a Callback for every event. Its visited bit-vector and queue
// are retained across calls so Reset can reuse the allocation instead
// of discarding it between visits (e.g. once per root, for an
// eccentricity sweep).
type Sequential struct {
	n       uint64
	visited []bool
	queue   []graph.NodeID
}

// NewSequential allocates a Sequential BFS runner over a graph of n
// nodes.
func NewSequential(n uint64) *Sequential {
	return &Sequential{n: n, visited: make([]bool, n)}
}

// Reset clears the visited set so the runner can be reused for a new
// visit over the same node count.
func (s *Sequential) Reset() {
	for i := range s.visited {
		s.visited[i] = false
	}
	s.queue = s.queue[:0]
}

// Run performs the BFS from roots. g must answer Successors for any
// node Run discovers. filter (nil means "follow everything") decides
// whether an arc is traversed; a node every reaching arc is filtered
// out of is never visited. If every root is filtered out, Run is a
// no-op: no events are emitted at all, per spec.md §4.6.
func (s *Sequential) Run(g graph.RandomAccess, roots []graph.NodeID, filter Filter, cb Callback) error {
	s.queue = s.queue[:0]
	for _, r := range roots {
		if s.visited[r] || !callFilter(filter, r, r, 0) {
			continue
		}
		s.visited[r] = true
		s.queue = append(s.queue, r)
	}
	if len(s.queue) == 0 {
		return nil
	}

	if ctrl := cb(Event{Kind: KindInit}); ctrl.shouldStop() {
		return ctrl.err
	}
	for _, r := range s.queue {
		if ctrl := cb(Event{Kind: KindVisit, Node: r, Pred: r, Distance: 0}); ctrl.shouldStop() {
			return ctrl.err
		}
	}

	levelCount := len(s.queue)
	s.queue = append(s.queue, levelSentinel)
	distance := uint64(0)
	nextCount := 0

	head := 0
	for head < len(s.queue) {
		v := s.queue[head]
		head++
		if v == levelSentinel {
			if ctrl := cb(Event{Kind: KindFrontierSize, Distance: distance, Size: levelCount}); ctrl.shouldStop() {
				return ctrl.err
			}
			if nextCount == 0 {
				break
			}
			distance++
			levelCount = nextCount
			nextCount = 0
			s.queue = append(s.queue, levelSentinel)
			continue
		}

		succ, err := g.Successors(v)
		if err != nil {
			return err
		}
		for w := range succ {
			if !callFilter(filter, w, v, distance+1) {
				continue
			}
			if s.visited[w] {
				if ctrl := cb(Event{Kind: KindRevisit, Node: w, Pred: v}); ctrl.shouldStop() {
					return ctrl.err
				}
				continue
			}
			s.visited[w] = true
			s.queue = append(s.queue, w)
			nextCount++
			if ctrl := cb(Event{Kind: KindVisit, Node: w, Pred: v, Distance: distance + 1}); ctrl.shouldStop() {
				return ctrl.err
			}
		}
	}

	if ctrl := cb(Event{Kind: KindDone}); ctrl.shouldStop() {
		return ctrl.err
	}
	return nil
}
