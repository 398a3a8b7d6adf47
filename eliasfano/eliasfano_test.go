package eliasfano

import (
	"bytes"
	"testing"

	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/internal/testutil"
)

func monotoneSequence(seed, n int) []uint64 {
	r := testutil.NewRand(seed)
	positions := make([]uint64, n+1)
	var running uint64
	for i := 1; i <= n; i++ {
		running += uint64(r.Intn(20))
		positions[i] = running
	}
	return positions
}

func TestIndexMatchesPositions(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 500} {
		positions := monotoneSequence(1, n)
		idx, err := BuildFromPositions(positions)
		if err != nil {
			t.Fatalf("n=%d: BuildFromPositions: %v", n, err)
		}
		if got, want := idx.Len(), uint64(n); got != want {
			t.Errorf("n=%d: Len() = %d, want %d", n, got, want)
		}
		if got, want := idx.Upper(), positions[len(positions)-1]; got != want {
			t.Errorf("n=%d: Upper() = %d, want %d", n, got, want)
		}
		for v, want := range positions {
			if got := idx.Position(uint64(v)); got != want {
				t.Errorf("n=%d: Position(%d) = %d, want %d", n, v, got, want)
			}
		}
	}
}

func TestPositionZeroIsZero(t *testing.T) {
	positions := monotoneSequence(2, 100)
	idx, err := BuildFromPositions(positions)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Position(0) != 0 {
		t.Errorf("Position(0) = %d, want 0", idx.Position(0))
	}
	if idx.Position(idx.Len()) != idx.Upper() {
		t.Errorf("Position(n) = %d, want Upper() = %d", idx.Position(idx.Len()), idx.Upper())
	}
}

func TestBuilderRejectsDecreasing(t *testing.T) {
	b := NewBuilder(3, 100)
	if err := b.Push(0); err != nil {
		t.Fatal(err)
	}
	if err := b.Push(10); err != nil {
		t.Fatal(err)
	}
	if err := b.Push(5); err == nil {
		t.Error("Push(5) after Push(10): got nil error, want error")
	}
}

func TestPlainIndexMatchesEliasFano(t *testing.T) {
	positions := monotoneSequence(3, 200)
	ef, err := BuildFromPositions(positions)
	if err != nil {
		t.Fatal(err)
	}
	pl, err := NewPlainIndex(positions)
	if err != nil {
		t.Fatal(err)
	}
	for v := uint64(0); v <= ef.Len(); v++ {
		if got, want := ef.Position(v), pl.Position(v); got != want {
			t.Errorf("Position(%d): elias-fano=%d plain=%d", v, got, want)
		}
	}
}

func TestBuildFromOffsetsStream(t *testing.T) {
	positions := monotoneSequence(4, 50)
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	// The stream encodes p_0..p_n as successive gamma-coded deltas, p_0's
	// own delta being its gap from an implicit 0.
	for i := 0; i < len(positions); i++ {
		var delta uint64
		if i == 0 {
			delta = positions[0]
		} else {
			delta = positions[i] - positions[i-1]
		}
		if _, err := bitio.Gamma.WriteTo(w, delta); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	idx, err := BuildFromOffsetsStream(r, uint64(len(positions)-1))
	if err != nil {
		t.Fatal(err)
	}
	for v, want := range positions {
		if got := idx.Position(uint64(v)); got != want {
			t.Errorf("Position(%d) = %d, want %d", v, got, want)
		}
	}
}
