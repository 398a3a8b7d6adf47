package bvgraph

// window is the ring buffer of the last W encoded/decoded successor
// lists, shared by Encoder and Decoder. spec.md §9 "Sliding-window
// ownership" calls for a ring buffer of owned vectors indexed by
// v mod (W+1); no back-reference escapes the window, so each instance
// owns its slots exclusively.
type window struct {
	size  int // W
	node  []uint64
	succ  [][]uint64
	depth []int
	valid []bool
}

func newWindow(w int) *window {
	n := w + 1
	return &window{
		size:  w,
		node:  make([]uint64, n),
		succ:  make([][]uint64, n),
		depth: make([]int, n),
		valid: make([]bool, n),
	}
}

func (win *window) slot(v uint64) int {
	return int(v % uint64(len(win.node)))
}

// put records v's successors and reference-chain depth in the window,
// evicting whatever previously occupied that slot.
func (win *window) put(v uint64, succ []uint64, depth int) {
	s := win.slot(v)
	win.node[s] = v
	// Copy: the window owns its slots, so callers may reuse succ's
	// backing array.
	cp := make([]uint64, len(succ))
	copy(cp, succ)
	win.succ[s] = cp
	win.depth[s] = depth
	win.valid[s] = true
}

// get returns the successors and depth stored for node v, if v is both
// present in the window and within the last W nodes relative to cur.
func (win *window) get(cur, v uint64) ([]uint64, int, bool) {
	if win.size == 0 || v > cur || cur-v > uint64(win.size) {
		return nil, 0, false
	}
	s := win.slot(v)
	if !win.valid[s] || win.node[s] != v {
		return nil, 0, false
	}
	return win.succ[s], win.depth[s], true
}

// reset clears the window for reuse.
func (win *window) reset() {
	for i := range win.valid {
		win.valid[i] = false
	}
}
