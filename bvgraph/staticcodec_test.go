package bvgraph

import (
	"bytes"
	"testing"

	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/internal/testutil"
)

func TestSelectDecodeFnPicksStaticForDefaults(t *testing.T) {
	fn := selectDecodeFn(DefaultCompressionFlags())
	if fn == nil {
		t.Fatalf("selectDecodeFn returned nil")
	}
	// Indirect check: a decodeListStatic call and a decodeList call over
	// the same bytes under the default flags must agree, since
	// selectDecodeFn is supposed to have picked the static path here.
	arcs := testutil.RandomArcs(11, 30, 3)
	lists := testutil.SuccessorLists(30, arcs)
	data := encodeGraph(t, lists, DefaultCompressionFlags(), 7, 3, 4)

	rStatic := bitio.NewReader(bytes.NewReader(data))
	rDynamic := bitio.NewReader(bytes.NewReader(data))
	codec := defaultStaticCodec()

	var decodedStatic, decodedDynamic [][]uint64
	var winStatic, winDynamic [][]uint64
	for v := range lists {
		resolveStatic := func(ref uint64) ([]uint64, int, error) {
			return winStatic[ref], 0, nil
		}
		resolveDynamic := func(ref uint64) ([]uint64, int, error) {
			return winDynamic[ref], 0, nil
		}
		succStatic, _, err := decodeListStatic(rStatic, codec, 7, 4, uint64(v), resolveStatic)
		if err != nil {
			t.Fatalf("decodeListStatic(%d): %v", v, err)
		}
		succDynamic, _, err := decodeList(rDynamic, DefaultCompressionFlags(), 7, 4, uint64(v), resolveDynamic)
		if err != nil {
			t.Fatalf("decodeList(%d): %v", v, err)
		}
		decodedStatic = append(decodedStatic, succStatic)
		decodedDynamic = append(decodedDynamic, succDynamic)
		winStatic = append(winStatic, succStatic)
		winDynamic = append(winDynamic, succDynamic)
	}
	assertListsEqual(t, lists, decodedStatic)
	assertListsEqual(t, lists, decodedDynamic)
}

func TestSelectDecodeFnFallsBackForNonDefaultFlags(t *testing.T) {
	flags := CompressionFlags{
		Outdegrees: bitio.Delta, References: bitio.Gamma,
		Blocks: bitio.Delta, Intervals: bitio.Delta, Residuals: bitio.ZetaCode{K: 5},
	}
	if flags.String() == defaultStaticCodec().Flags().String() {
		t.Fatalf("test flags must differ from the default static combination")
	}
	arcs := testutil.RandomArcs(12, 25, 3)
	lists := testutil.SuccessorLists(25, arcs)
	data := encodeGraph(t, lists, flags, 7, 3, 4)
	got := decodeAllSequential(t, data, flags, 25, 7, 4)
	assertListsEqual(t, lists, got)
}

func TestStaticCodecFlagsRoundTrip(t *testing.T) {
	codec := NewStaticCodec(bitio.GammaCode{}, bitio.UnaryCode{}, bitio.GammaCode{}, bitio.GammaCode{}, bitio.ZetaCode{K: 3})
	got := codec.Flags()
	want := DefaultCompressionFlags()
	if got.String() != want.String() {
		t.Fatalf("StaticCodec.Flags() = %+v, want %+v", got, want)
	}
}

func TestGraphSelectsStaticCodecForDefaultFlags(t *testing.T) {
	arcs := testutil.RandomArcs(13, 40, 3)
	lists := testutil.SuccessorLists(40, arcs)
	flags := DefaultCompressionFlags()
	wsize, rmax, lmin := 7, 3, 4
	data := encodeGraph(t, lists, flags, wsize, rmax, lmin)
	words := bytesToWords(data)

	r := bitio.NewMemReader(words)
	s := NewScanner(r, flags, 40, wsize, lmin)
	idx, err := BuildOffsetIndex(s)
	if err != nil {
		t.Fatalf("BuildOffsetIndex: %v", err)
	}

	props := Properties{
		Nodes: 40, WindowSize: wsize, MaxRefCount: rmax, MinIntervalLength: lmin, Flags: flags,
	}
	g := NewGraph(words, idx, props)
	if g.decode == nil {
		t.Fatalf("Graph.decode was not set")
	}
	for v, want := range lists {
		seq, err := g.Successors(uint64(v))
		if err != nil {
			t.Fatalf("node %d: Successors: %v", v, err)
		}
		var got []uint64
		for succ := range seq {
			got = append(got, succ)
		}
		if len(got) != len(want) {
			t.Fatalf("node %d: want %v got %v", v, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("node %d: want %v got %v", v, want, got)
			}
		}
	}
}
