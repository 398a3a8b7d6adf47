package graph

import "iter"

// Pair holds the two co-indexed label values Zip produces.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Zip combines two labelings that share the same underlying node and
// successor sequence (e.g. a graph and an arc-weight labeling over it)
// into one labeling of paired values. The two inputs must advance in
// lockstep: Zip does not resynchronize mismatched node ids, it asserts
// them equal.
type Zip[A, B any] struct {
	left  SequentialLabeling[A]
	right SequentialLabeling[B]
}

// NewZip constructs a Zip over two co-indexed labelings.
func NewZip[A, B any](left SequentialLabeling[A], right SequentialLabeling[B]) *Zip[A, B] {
	return &Zip[A, B]{left: left, right: right}
}

func (z *Zip[A, B]) NextNode() bool {
	l := z.left.NextNode()
	r := z.right.NextNode()
	if l != r {
		panic(Error("zipped labelings disagree on node count"))
	}
	if l && z.left.Node() != z.right.Node() {
		panic(Error("zipped labelings disagree on node order"))
	}
	return l
}

func (z *Zip[A, B]) Node() NodeID { return z.left.Node() }

func (z *Zip[A, B]) Err() error {
	if err := z.left.Err(); err != nil {
		return err
	}
	return z.right.Err()
}

// Labels yields paired (successor, Pair{leftLabel, rightLabel}) entries.
// The two label sequences must enumerate the same successors in the same
// order, which holds whenever left and right describe the same graph
// shape (the common case: a graph zipped with a labeling over its arcs).
func (z *Zip[A, B]) Labels() iter.Seq2[NodeID, Pair[A, B]] {
	return func(yield func(NodeID, Pair[A, B]) bool) {
		next, stop := iter.Pull2(z.right.Labels())
		defer stop()
		for s, a := range z.left.Labels() {
			rs, b, ok := next()
			if !ok || rs != s {
				panic(Error("zipped labelings disagree on successor set"))
			}
			if !yield(s, Pair[A, B]{Left: a, Right: b}) {
				return
			}
		}
	}
}

// Left projects a paired labeling down to its left component.
func Left[A, B any](z SequentialLabeling[Pair[A, B]]) SequentialLabeling[A] {
	return &projection[A, B, A]{inner: z, pick: func(p Pair[A, B]) A { return p.Left }}
}

// Right projects a paired labeling down to its right component.
func Right[A, B any](z SequentialLabeling[Pair[A, B]]) SequentialLabeling[B] {
	return &projection[A, B, B]{inner: z, pick: func(p Pair[A, B]) B { return p.Right }}
}

type projection[A, B, R any] struct {
	inner SequentialLabeling[Pair[A, B]]
	pick  func(Pair[A, B]) R
}

func (p *projection[A, B, R]) NextNode() bool { return p.inner.NextNode() }
func (p *projection[A, B, R]) Node() NodeID   { return p.inner.Node() }
func (p *projection[A, B, R]) Err() error     { return p.inner.Err() }
func (p *projection[A, B, R]) Labels() iter.Seq2[NodeID, R] {
	return func(yield func(NodeID, R) bool) {
		for s, v := range p.inner.Labels() {
			if !yield(s, p.pick(v)) {
				return
			}
		}
	}
}
