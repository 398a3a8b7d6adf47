package transform

// arc is a single (source, destination) graph arc, the unit the merge
// operates on.
type arc struct {
	Src, Dst uint64
}

func (a arc) less(b arc) bool {
	if a.Src != b.Src {
		return a.Src < b.Src
	}
	return a.Dst < b.Dst
}

// arcSource is a sorted, self-delimiting stream of arcs. batchReader
// (disk-backed) and a plain slice cursor (used by tests and by in-memory
// batches small enough to skip spilling) both implement it.
type arcSource interface {
	// Peek returns the current head arc. ok is false once exhausted;
	// Peek must keep returning false afterward without erroring.
	Peek() (arc, bool, error)
	// Advance discards the current head and loads the next one.
	Advance() error
}

// LoserTree performs a k-way merge over sorted arcSources using a
// tournament tree indexed by input id, per spec.md §9's "external
// sort-merge k-way merge": a loser tree, not a heap of (value, source)
// pairs, with one tree node per input plus an overall winner. The tree
// is rebuilt only when the live-input count halves, keeping it dense
// between rebuilds rather than carrying dead leaves forever.
type LoserTree struct {
	sources []arcSource // all sources, including already-drained ones
	live    []int       // indices into sources still believed live, compacted at last build
	size    int         // len(live) at last build, rounded up to a power of two for the tree
	loser   []int       // tournament tree; loser[i] holds the compacted index of the loser at internal node i
	winner  int         // compacted index of the current overall winner
	builtAt int         // len(live) at the time of the last build, for the halving check

	err error
}

// NewLoserTree builds a merge over sources. Each source must already be
// positioned at its first arc (or exhausted).
func NewLoserTree(sources []arcSource) (*LoserTree, error) {
	t := &LoserTree{sources: sources}
	live := make([]int, 0, len(sources))
	for i, s := range sources {
		_, ok, err := s.Peek()
		if err != nil {
			return nil, err
		}
		if ok {
			live = append(live, i)
		}
	}
	t.live = live
	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// key returns the comparison key for compacted leaf index i: the live
// source's current head arc, or a synthetic +infinity for padding leaves
// (i >= len(t.live), needed to round the tree up to a power of two) and
// for leaves whose source has since drained.
func (t *LoserTree) key(i int) (arc, bool, error) {
	if i >= len(t.live) {
		return arc{}, false, nil
	}
	a, ok, err := t.sources[t.live[i]].Peek()
	if err != nil || !ok {
		return arc{}, false, err
	}
	return a, true, nil
}

// less reports whether leaf i's key precedes leaf j's, treating an
// exhausted or padding leaf as infinitely large so it always loses.
func (t *LoserTree) less(i, j int) (bool, error) {
	ai, oki, err := t.key(i)
	if err != nil {
		return false, err
	}
	aj, okj, err := t.key(j)
	if err != nil {
		return false, err
	}
	switch {
	case !oki:
		return false, nil
	case !okj:
		return true, nil
	default:
		return ai.less(aj), nil
	}
}

// build runs the classic "tree of losers" tournament construction over
// the current compacted live set, padded to a power of two with
// always-losing dummy leaves.
func (t *LoserTree) build() error {
	m := nextPow2(len(t.live))
	t.size = m
	t.builtAt = len(t.live)
	t.loser = make([]int, m)

	match := make([]int, 2*m)
	for i := 0; i < m; i++ {
		match[m+i] = i
	}
	for i := m - 1; i >= 1; i-- {
		l, r := match[2*i], match[2*i+1]
		lLess, err := t.less(l, r)
		if err != nil {
			return err
		}
		if lLess {
			match[i] = l
			t.loser[i] = r
		} else {
			match[i] = r
			t.loser[i] = l
		}
	}
	t.winner = match[1]
	return nil
}

// replay restores the tournament invariant after leaf's key changes,
// walking from leaf to root and swapping in the new winner at each
// internal node it passes, per the standard loser-tree replay algorithm.
func (t *LoserTree) replay(leaf int) error {
	cur := leaf
	for node := (t.size + cur) / 2; node >= 1; node /= 2 {
		curLess, err := t.less(t.loser[node], cur)
		if err != nil {
			return err
		}
		if curLess {
			t.loser[node], cur = cur, t.loser[node]
		}
	}
	t.winner = cur
	return nil
}

// Next returns the overall minimum arc across all sources and advances
// past it, or ok == false once every source is exhausted.
func (t *LoserTree) Next() (arc, bool, error) {
	if t.err != nil {
		return arc{}, false, t.err
	}
	a, ok, err := t.key(t.winner)
	if err != nil {
		t.err = err
		return arc{}, false, err
	}
	if !ok {
		return arc{}, false, nil
	}

	origIdx := t.live[t.winner]
	if err := t.sources[origIdx].Advance(); err != nil {
		t.err = err
		return arc{}, false, err
	}

	if _, stillOk, err := t.sources[origIdx].Peek(); err != nil {
		t.err = err
		return arc{}, false, err
	} else if !stillOk {
		t.maybeCompact()
	}

	if err := t.replay(t.winner); err != nil {
		t.err = err
		return arc{}, false, err
	}
	return a, true, nil
}

// maybeCompact drops drained sources from the live set and rebuilds the
// tree once the live count has halved since the last build, per spec.md
// §9's "rebuilt only when the live-input count halves (to keep the tree
// dense)".
func (t *LoserTree) maybeCompact() {
	liveCount := 0
	for _, idx := range t.live {
		if _, ok, _ := t.sources[idx].Peek(); ok {
			liveCount++
		}
	}
	if t.builtAt > 0 && liveCount <= t.builtAt/2 {
		compacted := make([]int, 0, liveCount)
		for _, idx := range t.live {
			if _, ok, _ := t.sources[idx].Peek(); ok {
				compacted = append(compacted, idx)
			}
		}
		t.live = compacted
		if err := t.build(); err != nil {
			t.err = err
		}
	}
}
