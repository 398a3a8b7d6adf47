package eliasfano

import (
	"encoding/binary"
	"io"
)

// Serialize writes idx in the module's wire format for ".ef" sidecar
// files (spec.md §6): a small fixed header (n, u, low-bit width, word
// counts) followed by the raw low and high bit-vector words. This is the
// concrete wire encoding spec.md's "serializable to disk" requirement
// asks for, not a general-purpose serde framework — there is no
// versioning, no field tags, just the five values needed to reconstruct
// an Index exactly.
func (idx *Index) Serialize(w io.Writer) error {
	header := []uint64{idx.n, idx.u, uint64(idx.lowBits), uint64(len(idx.low.words)), uint64(len(idx.high.words))}
	for _, h := range header {
		if err := binary.Write(w, binary.BigEndian, h); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.BigEndian, idx.low.words); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, idx.high.words)
}

// Deserialize reads back an Index written by Serialize. The high
// bit-vector's select inventory is not stored on disk; it is rebuilt by
// one linear scan over the recovered words.
func Deserialize(r io.Reader) (*Index, error) {
	var n, u, lowBits, lowWordCount, highWordCount uint64
	for _, dst := range []*uint64{&n, &u, &lowBits, &lowWordCount, &highWordCount} {
		if err := binary.Read(r, binary.BigEndian, dst); err != nil {
			return nil, err
		}
	}
	lowWords := make([]uint64, lowWordCount)
	if err := binary.Read(r, binary.BigEndian, lowWords); err != nil {
		return nil, err
	}
	highWords := make([]uint64, highWordCount)
	if err := binary.Read(r, binary.BigEndian, highWords); err != nil {
		return nil, err
	}
	return &Index{
		n:       n,
		u:       u,
		lowBits: uint(lowBits),
		low:     &packedArray{words: lowWords, width: uint(lowBits)},
		high:    rebuildBitVector(highWords, n+1),
	}, nil
}

// rebuildBitVector reconstructs a bitVector's ones count and select
// inventory from its raw words, for use after Deserialize.
func rebuildBitVector(words []uint64, expectedOnes uint64) *bitVector {
	bv := &bitVector{words: words, nbits: uint64(len(words)) * 64}
	for i := uint64(0); i < bv.nbits; i++ {
		if bv.get(i) {
			if bv.ones%sampleRate == 0 {
				bv.inv = append(bv.inv, i)
			}
			bv.ones++
		}
	}
	return bv
}
