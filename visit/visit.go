// Package visit implements graph traversal (spec.md §4.6, BfsCore):
// sequential and parallel breadth-first search plus depth-first search,
// all driven by a caller-supplied Filter and reporting progress through
// a stream of Events.
package visit

import "github.com/dsnet/webgraph/graph"

// Kind identifies which fields of an Event are populated.
type Kind int

const (
	KindInit Kind = iota
	KindVisit
	KindRevisit
	KindFrontierSize
	KindDone
	// KindPrevisit and KindPostvisit are DFS-only, emitted by DFS.Run
	// on first reaching a node and on leaving it (all descendants
	// exhausted) respectively. Distance carries the node's DFS depth.
	KindPrevisit
	KindPostvisit
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "Init"
	case KindVisit:
		return "Visit"
	case KindRevisit:
		return "Revisit"
	case KindFrontierSize:
		return "FrontierSize"
	case KindDone:
		return "Done"
	case KindPrevisit:
		return "Previsit"
	case KindPostvisit:
		return "Postvisit"
	default:
		return "Unknown"
	}
}

// Event is the sum type spec.md §4.6 describes — Init, Visit{Node, Pred,
// Distance}, Revisit{Node, Pred}, FrontierSize{Distance, Size}, Done —
// represented as one struct tagged by Kind rather than five distinct
// types, since Go has no sum types and a single struct keeps the
// callback signature (func(Event) Control) a plain, allocation-free
// value type.
type Event struct {
	Kind     Kind
	Node     graph.NodeID
	Pred     graph.NodeID
	Distance uint64
	Size     int
}

// Filter decides whether an arc from pred to node at the given distance
// should be followed. Returning false prunes node from this visit
// entirely (it is never marked visited by this arc).
type Filter func(node, pred graph.NodeID, distance uint64) bool

// Control is a callback's verdict after observing an Event.
type Control struct {
	stop bool
	err  error
}

// Continue lets the visit proceed.
var Continue = Control{}

// Stop ends the visit early, surfacing err (if non-nil) from the
// driving function.
func Stop(err error) Control { return Control{stop: true, err: err} }

func (c Control) shouldStop() bool { return c.stop }

// Callback receives visit events in the order they occur.
type Callback func(Event) Control

// callFilter applies f if non-nil, defaulting to "always follow".
func callFilter(f Filter, node, pred graph.NodeID, distance uint64) bool {
	if f == nil {
		return true
	}
	return f(node, pred, distance)
}
