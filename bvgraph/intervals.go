package bvgraph

import "github.com/dsnet/webgraph/bitio"

// interval is a maximal run of consecutive successors, spec.md §4.3.4.
type interval struct {
	start  uint64
	length uint64
}

// extractIntervals scans sorted for maximal runs of consecutive integers
// of length >= lmin, in order. lmin == 0 disables interval extraction
// entirely, per spec.md §4.2's "0 disables intervals." Elements not
// captured by an interval are returned, in order, as residuals.
func extractIntervals(sorted []uint64, lmin int) (intervals []interval, residuals []uint64) {
	i := 0
	for i < len(sorted) {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		runLen := j - i + 1
		if lmin > 0 && runLen >= lmin {
			intervals = append(intervals, interval{start: sorted[i], length: uint64(runLen)})
		} else {
			residuals = append(residuals, sorted[i:j+1]...)
		}
		i = j + 1
	}
	return intervals, residuals
}

// remainderCost returns the number of bits needed to encode intervals and
// residuals for a list whose source node is v, under flags. lmin must be
// the same minimum interval length extractIntervals was called with.
func remainderCost(flags CompressionFlags, v uint64, lmin int, intervals []interval, residuals []uint64) int {
	bits := flags.Intervals.Len(uint64(len(intervals)))
	var prevEnd uint64
	for i, iv := range intervals {
		if i == 0 {
			bits += flags.Intervals.Len(bitio.Zigzag(int64(iv.start) - int64(v)))
		} else {
			bits += flags.Intervals.Len(iv.start - prevEnd)
		}
		bits += flags.Intervals.Len(iv.length - uint64(lmin))
		prevEnd = iv.start + iv.length
	}
	for i, r := range residuals {
		if i == 0 {
			bits += flags.Residuals.Len(bitio.Zigzag(int64(r) - int64(v)))
		} else {
			bits += flags.Residuals.Len(r - residuals[i-1] - 1)
		}
	}
	return bits
}

// writeRemainder writes intervals then residuals in the wire format
// remainderCost costed, returning the number of bits written.
func writeRemainder(w bitio.BitWriter, flags CompressionFlags, v uint64, lmin int, intervals []interval, residuals []uint64) (int, error) {
	total := 0
	n, err := flags.Intervals.WriteTo(w, uint64(len(intervals)))
	total += n
	if err != nil {
		return total, err
	}
	var prevEnd uint64
	for i, iv := range intervals {
		if i == 0 {
			n, err = flags.Intervals.WriteTo(w, bitio.Zigzag(int64(iv.start)-int64(v)))
		} else {
			n, err = flags.Intervals.WriteTo(w, iv.start-prevEnd)
		}
		total += n
		if err != nil {
			return total, err
		}
		n, err = flags.Intervals.WriteTo(w, iv.length-uint64(lmin))
		total += n
		if err != nil {
			return total, err
		}
		prevEnd = iv.start + iv.length
	}
	for i, r := range residuals {
		if i == 0 {
			n, err = flags.Residuals.WriteTo(w, bitio.Zigzag(int64(r)-int64(v)))
		} else {
			n, err = flags.Residuals.WriteTo(w, r-residuals[i-1]-1)
		}
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// readRemainder reads back exactly what writeRemainder wrote. remaining is
// the number of successors the caller expects intervals+residuals to
// jointly account for (outdegree minus elements already produced by
// copying); since no residual count is written on the wire, the number of
// residuals is derived as remaining minus the sum of interval lengths once
// the intervals have been read.
func readRemainder(r bitio.BitReader, flags CompressionFlags, v uint64, lmin int, remaining int) (intervals []interval, residuals []uint64, err error) {
	count, err := flags.Intervals.ReadFrom(r)
	if err != nil {
		return nil, nil, err
	}
	intervals = make([]interval, 0, count)
	var prevEnd uint64
	for i := uint64(0); i < count; i++ {
		var start uint64
		if i == 0 {
			d, err := flags.Intervals.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			start = uint64(int64(v) + bitio.Unzigzag(d))
		} else {
			d, err := flags.Intervals.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			start = prevEnd + d
		}
		length, err := flags.Intervals.ReadFrom(r)
		if err != nil {
			return nil, nil, err
		}
		length += uint64(lmin)
		intervals = append(intervals, interval{start: start, length: length})
		prevEnd = start + length
		remaining -= int(length)
	}
	if remaining < 0 {
		return nil, nil, Error("interval lengths exceed outdegree")
	}
	numResiduals := remaining
	residuals = make([]uint64, 0, numResiduals)
	var prev uint64
	for i := 0; i < numResiduals; i++ {
		if i == 0 {
			d, err := flags.Residuals.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			prev = uint64(int64(v) + bitio.Unzigzag(d))
		} else {
			d, err := flags.Residuals.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			prev = prev + d + 1
		}
		residuals = append(residuals, prev)
	}
	return intervals, residuals, nil
}
