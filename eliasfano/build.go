package eliasfano

import "github.com/dsnet/webgraph/bitio"

// BuildFromPositions is a convenience constructor equivalent to pushing
// every element of positions (p_0=0, ..., p_n) through a Builder.
func BuildFromPositions(positions []uint64) (*Index, error) {
	if len(positions) == 0 {
		return nil, Error("positions must include at least p_0")
	}
	u := positions[len(positions)-1]
	b := NewBuilder(uint64(len(positions)), u)
	for _, p := range positions {
		if err := b.Push(p); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// BuildFromOffsetsStream reconstructs an Index by reading n+1 gamma-coded
// nonnegative deltas from r, per spec.md §4.2 path (a): "the bitstream
// itself, by gamma-decoding each node's successor-list length in turn and
// accumulating a running offset." The first delta is p_0's own gap from 0
// and is expected to be 0 for a well-formed bvgraph stream.
func BuildFromOffsetsStream(r bitio.BitReader, n uint64) (*Index, error) {
	count := n + 1
	positions := make([]uint64, 0, count)
	var running uint64
	for i := uint64(0); i < count; i++ {
		delta, err := bitio.Gamma.ReadFrom(r)
		if err != nil {
			return nil, err
		}
		running += delta
		positions = append(positions, running)
	}
	return BuildFromPositions(positions)
}
