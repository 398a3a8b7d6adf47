package bvgraph

import (
	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/eliasfano"
)

// Scanner walks a compressed bitstream node by node without materializing
// any successor values, recording only each list's outdegree and starting
// bit offset. This is spec.md §4.3.7's scan mode: the pass used to build
// an OffsetIndex (eliasfano.Index) from a bitstream alone, or to recompute
// NumArcs, without paying for full decode.
//
// Reference resolution in scan mode only ever needs a referenced list's
// outdegree (to know how many of its elements a block list can partition),
// never its actual successor values, so the window here is a plain
// outdegree/depth ring buffer rather than bvgraph's successor-holding
// window type.
type Scanner struct {
	r     bitio.BitReader
	flags CompressionFlags
	wsize int
	lmin  int

	n        uint64
	next     uint64
	outdeg   []uint64
	depth    []int
	valid    []bool
	lastSize int
	lastErr  error
}

// NewScanner creates a Scanner over r (positioned at node 0's list) for a
// graph of n nodes.
func NewScanner(r bitio.BitReader, flags CompressionFlags, n uint64, windowSize, minIntervalLength int) *Scanner {
	w := windowSize + 1
	return &Scanner{
		r: r, flags: flags, wsize: windowSize, lmin: minIntervalLength, n: n,
		outdeg: make([]uint64, w), depth: make([]int, w), valid: make([]bool, w),
	}
}

func (s *Scanner) slot(v uint64) int {
	if len(s.outdeg) == 0 {
		return 0
	}
	return int(v % uint64(len(s.outdeg)))
}

// Next scans the next node's list, returning its outdegree and the
// absolute bit offset its list started at (the value an OffsetIndex
// should map v to). It returns false once every node has been scanned or
// an error occurs; see Err.
func (s *Scanner) Next() (outdegree, offset uint64, ok bool) {
	if s.lastErr != nil || s.next >= s.n {
		return 0, 0, false
	}
	v := s.next
	s.next++
	offset = s.r.BitPos()

	d, err := s.flags.Outdegrees.ReadFrom(s.r)
	if err != nil {
		s.lastErr = err
		return 0, 0, false
	}

	depth := 0
	copiedCount := 0
	if d > 0 && s.wsize > 0 {
		refR, err := s.flags.References.ReadFrom(s.r)
		if err != nil {
			s.lastErr = err
			return 0, 0, false
		}
		if refR > 0 {
			if refR > v {
				s.lastErr = Error("reference offset exceeds source node id")
				return 0, 0, false
			}
			slot := s.slot(v - refR)
			if !s.valid[slot] {
				s.lastErr = Error("reference resolves outside the scan window")
				return 0, 0, false
			}
			refOutdeg := s.outdeg[slot]
			depth = s.depth[slot] + 1
			copiedCount, err = s.scanBlockList(refOutdeg)
			if err != nil {
				s.lastErr = err
				return 0, 0, false
			}
		}
	}

	if err := s.scanRemainder(int(d) - copiedCount); err != nil {
		s.lastErr = err
		return 0, 0, false
	}

	slot := s.slot(v)
	s.outdeg[slot], s.depth[slot], s.valid[slot] = d, depth, true
	return d, offset, true
}

// scanBlockList consumes a block list's bits and returns how many of the
// refOutdeg reference elements were marked for copying, without needing
// their actual values.
func (s *Scanner) scanBlockList(refOutdeg uint64) (int, error) {
	count, err := s.flags.Blocks.ReadFrom(s.r)
	if err != nil {
		return 0, err
	}
	copying := false
	copied := uint64(0)
	consumed := uint64(0)
	for i := uint64(0); i < count; i++ {
		v, err := s.flags.Blocks.ReadFrom(s.r)
		if err != nil {
			return 0, err
		}
		if i > 0 {
			v++
		}
		if copying {
			copied += v
		}
		consumed += v
		copying = !copying
	}
	if consumed > refOutdeg {
		return 0, Error("block list consumes more than the reference's outdegree")
	}
	return int(copied), nil
}

// scanRemainder consumes an interval+residual section's bits, given
// remaining (the element count intervals+residuals must jointly cover).
func (s *Scanner) scanRemainder(remaining int) error {
	count, err := s.flags.Intervals.ReadFrom(s.r)
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		if _, err := s.flags.Intervals.ReadFrom(s.r); err != nil { // start delta
			return err
		}
		length, err := s.flags.Intervals.ReadFrom(s.r)
		if err != nil {
			return err
		}
		remaining -= int(length + uint64(s.lmin))
	}
	if remaining < 0 {
		return Error("interval lengths exceed outdegree")
	}
	for i := 0; i < remaining; i++ {
		if _, err := s.flags.Residuals.ReadFrom(s.r); err != nil {
			return err
		}
	}
	return nil
}

// Err returns the first error encountered while scanning, if any.
func (s *Scanner) Err() error { return s.lastErr }

// BuildOffsetIndex drives s to completion and builds an eliasfano.Index
// mapping each node to its list's starting bit offset, per spec.md §4.2
// path (b): "the scan-mode decoder, recording each list's starting bit
// offset directly." The final position (the bitstream's total length) is
// appended as the sequence's upper sentinel, matching BuildFromPositions'
// p_n convention.
func BuildOffsetIndex(s *Scanner) (*eliasfano.Index, error) {
	positions := make([]uint64, 0, s.n+1)
	for {
		_, offset, ok := s.Next()
		if !ok {
			break
		}
		positions = append(positions, offset)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	positions = append(positions, s.r.BitPos()) // trailing sentinel: end of stream
	return eliasfano.BuildFromPositions(positions)
}
