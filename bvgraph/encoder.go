package bvgraph

import (
	"runtime"

	"github.com/dsnet/webgraph/bitio"
)

// Encoder writes one bvgraph adjacency-list stream, node by node, mirroring
// spec.md §4.3.1's encoder state: a sliding window of the last W encoded
// lists plus their reference-chain depths, fed through StartNode/Push/Flush.
//
// Grounded on the teacher's stateful, Reset-reusable writer types
// (flate's huffmanBitWriter pattern: a single long-lived writer object
// driven by repeated calls rather than constructed fresh per list) and on
// bzip2's errRecover panic-to-error boundary for invariant violations in
// the reference-selection hot path.
type Encoder struct {
	w     bitio.BitWriter
	flags CompressionFlags
	win   *window
	rmax  int
	lmin  int
	wsize int

	curV    uint64
	started bool

	progress ProgressSink
}

// NewEncoder creates an Encoder writing through w with the given
// compression parameters.
func NewEncoder(w bitio.BitWriter, flags CompressionFlags, windowSize, maxRefCount, minIntervalLength int) *Encoder {
	return &Encoder{
		w:     w,
		flags: flags,
		win:   newWindow(windowSize),
		rmax:  maxRefCount,
		lmin:  minIntervalLength,
		wsize: windowSize,
	}
}

// SetProgressSink attaches an optional progress collaborator; nil detaches
// it. LightUpdate is called once per Push.
func (e *Encoder) SetProgressSink(p ProgressSink) { e.progress = p }

// StartNode begins encoding node v's adjacency list.
func (e *Encoder) StartNode(v uint64) {
	e.curV = v
	e.started = true
}

// candidate is the outcome of evaluating one reference offset (including
// r=0, meaning no reference) during selection.
type candidate struct {
	r         uint64
	bits      int
	depth     int
	bl        blockList
	intervals []interval
	residuals []uint64
}

// Push encodes successors (sorted ascending, no duplicates) as the list
// for the node most recently named by StartNode, writes it, and folds it
// into the sliding window. It returns the number of bits written.
func (e *Encoder) Push(successors []uint64) (n int, err error) {
	defer errRecover(&err)
	if !e.started {
		panic(Error("Push called without a preceding StartNode"))
	}
	v := e.curV
	e.started = false
	assertSorted(successors)

	best := e.selectReference(v, successors)

	total := 0
	nb, err := e.flags.Outdegrees.WriteTo(e.w, uint64(len(successors)))
	total += nb
	if err != nil {
		return total, err
	}
	if len(successors) > 0 && e.wsize > 0 {
		nb, err = e.flags.References.WriteTo(e.w, best.r)
		total += nb
		if err != nil {
			return total, err
		}
	}
	if best.r > 0 {
		nb, err = writeBlockList(e.w, e.flags, best.bl)
		total += nb
		if err != nil {
			return total, err
		}
	}
	nb, err = writeRemainder(e.w, e.flags, v, e.lmin, best.intervals, best.residuals)
	total += nb
	if err != nil {
		return total, err
	}

	e.win.put(v, successors, best.depth)
	lightUpdate(e.progress)
	return total, nil
}

// Flush has nothing buffered of its own to drain; callers flush the
// underlying bitio.Writer directly. It exists to mirror spec.md §4.3.1's
// encoder contract and as a seam for future deferred-write strategies.
func (e *Encoder) Flush() error { return nil }

// selectReference implements spec.md §4.3.2: for each r in
// [1, min(W, v)], estimate the bit cost of referencing v-r and pick the
// minimum, tie-breaking toward smaller r, falling back to r=0 (no
// reference) if nothing beats it or every candidate's reference has
// already reached the maximum chain depth.
func (e *Encoder) selectReference(v uint64, succ []uint64) candidate {
	succSet := make(map[uint64]bool, len(succ))
	for _, s := range succ {
		succSet[s] = true
	}

	intervals0, residuals0 := extractIntervals(succ, e.lmin)
	best := candidate{
		r:         0,
		depth:     0,
		intervals: intervals0,
		residuals: residuals0,
		bits:      e.flags.References.Len(0) + remainderCost(e.flags, v, e.lmin, intervals0, residuals0),
	}

	maxR := e.wsize
	if uint64(maxR) > v {
		maxR = int(v)
	}
	for r := 1; r <= maxR; r++ {
		refSucc, refDepth, ok := e.win.get(v, v-uint64(r))
		if !ok || refDepth >= e.rmax {
			continue
		}
		bl := buildBlockList(refSucc, succSet)
		remaining := setDifference(succ, bl.copied)
		intervals, residuals := extractIntervals(remaining, e.lmin)
		bits := e.flags.References.Len(uint64(r)) +
			blockListCost(e.flags, bl) +
			remainderCost(e.flags, v, e.lmin, intervals, residuals)
		if bits < best.bits {
			best = candidate{
				r: uint64(r), depth: refDepth + 1, bl: bl,
				intervals: intervals, residuals: residuals, bits: bits,
			}
		}
	}
	return best
}

// setDifference returns the elements of a not present in b (both sorted
// ascending, b a subset of a).
func setDifference(a, b []uint64) []uint64 {
	if len(b) == 0 {
		return a
	}
	out := make([]uint64, 0, len(a)-len(b))
	j := 0
	for _, x := range a {
		if j < len(b) && b[j] == x {
			j++
			continue
		}
		out = append(out, x)
	}
	return out
}

// errRecover converts a hot-path panic into a returned error at the call
// boundary, mirroring flate/common.go's errRecover.
func errRecover(err *error) {
	switch ex := recover().(type) {
	case nil:
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}

// assertSorted panics if xs is not strictly increasing; used to validate
// encoder input, since a malformed caller-supplied successor list would
// otherwise silently corrupt the bitstream.
func assertSorted(xs []uint64) {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			panic(Error("successors must be sorted and free of duplicates"))
		}
	}
}
