package visit

import "sync/atomic"

// VisitedSet is an atomic bit-vector of n bits supporting a
// compare-and-set "claim" operation, the data structure spec.md §4.6's
// parallel strategies use to let concurrent workers race to discover a
// node without double-counting it: exactly one caller's TryClaim
// succeeds per bit. Grounded on the level-array/atomic-counter shape of
// other_examples' Dinic's-algorithm BFS
// (4e7d007f_wllclngn-Tests__23B-adaptive-kyng-dinics-TEST.go.go uses
// int32 level slots and atomic goroutine counters for its concurrent
// BFS frontier), adapted from one word per vertex to one bit per vertex
// since this package only needs a visited flag, not a distance label.
type VisitedSet struct {
	words []uint64
}

// NewVisitedSet allocates a set over n node ids, all initially unclaimed.
func NewVisitedSet(n uint64) *VisitedSet {
	return &VisitedSet{words: make([]uint64, (n+63)/64)}
}

// TryClaim atomically marks v visited and reports whether this call was
// the one that did so (false if another caller already claimed it).
func (s *VisitedSet) TryClaim(v uint64) bool {
	word, bit := v/64, v%64
	mask := uint64(1) << bit
	for {
		old := atomic.LoadUint64(&s.words[word])
		if old&mask != 0 {
			return false
		}
		if atomic.CompareAndSwapUint64(&s.words[word], old, old|mask) {
			return true
		}
	}
}

// IsVisited reports v's current state without claiming it.
func (s *VisitedSet) IsVisited(v uint64) bool {
	return atomic.LoadUint64(&s.words[v/64])&(uint64(1)<<(v%64)) != 0
}

// Reset clears every bit, so the set can be reused for a new visit.
func (s *VisitedSet) Reset() {
	for i := range s.words {
		atomic.StoreUint64(&s.words[i], 0)
	}
}
