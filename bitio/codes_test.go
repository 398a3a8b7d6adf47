package bitio

import (
	"bytes"
	"testing"

	"github.com/dsnet/webgraph/internal/testutil"
)

func allCodes() []Code {
	cs := []Code{Unary, Gamma, Delta}
	for k := 1; k <= 7; k++ {
		cs = append(cs, ZetaCode{K: k})
	}
	for k := 1; k <= 4; k++ {
		cs = append(cs, PiCode{K: k})
	}
	return cs
}

func TestCodesRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 4, 7, 8, 15, 16, 17, 255, 256, 1023,
		1 << 20, 1<<32 - 1, 1 << 40}
	for _, c := range allCodes() {
		c := c
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			lens := make([]int, len(values))
			for i, v := range values {
				n, err := c.WriteTo(w, v)
				if err != nil {
					t.Fatalf("WriteTo(%d): %v", v, err)
				}
				if n != c.Len(v) {
					t.Fatalf("WriteTo(%d) wrote %d bits, Len reports %d", v, n, c.Len(v))
				}
				lens[i] = n
			}
			if err := w.Flush(); err != nil {
				t.Fatal(err)
			}

			r := NewReader(&buf)
			for i, v := range values {
				got, err := c.ReadFrom(r)
				if err != nil {
					t.Fatalf("ReadFrom #%d: %v", i, err)
				}
				if got != v {
					t.Fatalf("round trip mismatch: wrote %d, read %d", v, got)
				}
			}
		})
	}
}

func TestCodesLittleEndianRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 5, 100, 1 << 16, 1<<30 - 1}
	for _, c := range allCodes() {
		c := c
		var buf bytes.Buffer
		w := NewLEWriter(&buf)
		for _, v := range values {
			if _, err := c.WriteTo(w, v); err != nil {
				t.Fatalf("%s WriteTo(%d): %v", c, v, err)
			}
		}
		if err := w.Flush(); err != nil {
			t.Fatal(err)
		}
		r := NewLEReader(&buf)
		for _, v := range values {
			got, err := c.ReadFrom(r)
			if err != nil {
				t.Fatalf("%s ReadFrom: %v", c, err)
			}
			if got != v {
				t.Fatalf("%s round trip mismatch: wrote %d, read %d", c, v, got)
			}
		}
	}
}

func TestGammaKnownLengths(t *testing.T) {
	// gamma(0) = "0" (1 bit), gamma(1) = "100" (3 bits), gamma(3) = "11000"... 2*floor(log2(x+1))+1
	cases := []struct {
		x   uint64
		len int
	}{
		{0, 1}, {1, 3}, {2, 3}, {3, 5}, {6, 5}, {7, 7},
	}
	for _, c := range cases {
		if got := Gamma.Len(c.x); got != c.len {
			t.Errorf("Gamma.Len(%d) = %d, want %d", c.x, got, c.len)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"UNARY", "GAMMA", "DELTA", "ZETA3", "PI2"} {
		code, ok := ByName(name)
		if !ok {
			t.Fatalf("ByName(%q) not found", name)
		}
		if code.String() != name {
			t.Errorf("ByName(%q).String() = %q", name, code.String())
		}
	}
	if _, ok := ByName("ZETA0"); ok {
		t.Errorf("ByName(ZETA0) should not resolve")
	}
	if _, ok := ByName("ZETA"); ok {
		t.Errorf("ByName(ZETA) legacy token should not resolve without a k")
	}
}

func TestZigzag(t *testing.T) {
	r := testutil.NewRand(1)
	for i := 0; i < 1000; i++ {
		x := int64(r.Int() % 1_000_000)
		if got := Unzigzag(Zigzag(x)); got != x {
			t.Fatalf("Unzigzag(Zigzag(%d)) = %d", x, got)
		}
	}
}

func TestBitPosTracking(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if _, err := w.WriteBits(0b101, 3); err != nil {
		t.Fatal(err)
	}
	if w.BitPos() != 3 {
		t.Fatalf("BitPos = %d, want 3", w.BitPos())
	}
	if _, err := w.WriteBits(0xFF, 8); err != nil {
		t.Fatal(err)
	}
	if w.BitPos() != 11 {
		t.Fatalf("BitPos = %d, want 11", w.BitPos())
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	if v, err := r.ReadBits(3); err != nil || v != 0b101 {
		t.Fatalf("ReadBits(3) = %d, %v", v, err)
	}
	if r.BitPos() != 3 {
		t.Fatalf("BitPos = %d, want 3", r.BitPos())
	}
}

func TestMemReaderMatchesWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	values := []uint64{0, 1, 2, 100, 1 << 20}
	for _, v := range values {
		if _, err := Gamma.WriteTo(w, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	for len(raw)%4 != 0 {
		raw = append(raw, 0)
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = uint32(raw[4*i])<<24 | uint32(raw[4*i+1])<<16 | uint32(raw[4*i+2])<<8 | uint32(raw[4*i+3])
	}

	mr := NewMemReader(words)
	for _, v := range values {
		got, err := Gamma.ReadFrom(mr)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("MemReader: got %d, want %d", got, v)
		}
	}
}
