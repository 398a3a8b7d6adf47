package bvgraph

import (
	"bytes"
	"testing"

	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/internal/testutil"
)

// TestDecodeListAgainstBitGenFixture decodes a hand-specified two-node
// bitstream — a self-loop on node 0 followed by an empty list for node 1,
// with window size 0 so no reference bit is ever written — built with
// testutil.MustDecodeBitGen, exercising decodeList's wire format against
// exact, human-authored bits instead of only round-tripping through
// Encoder.
func TestDecodeListAgainstBitGenFixture(t *testing.T) {
	data := testutil.MustDecodeBitGen(`
		>>>
		> 100 0 0000  # node 0: gamma(1) outdegree, gamma(0) interval count, zeta3(0) residual
		> 0 0         # node 1: gamma(0) outdegree, gamma(0) interval count
	`)

	flags := DefaultCompressionFlags()
	r := bitio.NewReader(bytes.NewReader(data))
	dec := NewDecoder(r, flags, 2, 0, 1000)

	var got [][]uint64
	for dec.NextNode() {
		var succ []uint64
		for s := range dec.Successors() {
			succ = append(succ, s)
		}
		got = append(got, succ)
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 nodes, got %d", len(got))
	}
	if len(got[0]) != 1 || got[0][0] != 0 {
		t.Fatalf("node 0: want [0] (self-loop), got %v", got[0])
	}
	if len(got[1]) != 0 {
		t.Fatalf("node 1: want [], got %v", got[1])
	}
}
