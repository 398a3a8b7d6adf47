package transform

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/dsnet/webgraph/bitio"
)

// batchFileMagic distinguishes a spilled batch file from an arbitrary
// truncated or corrupt one.
const batchFileMagic = "WGBATCH1"

// writeBatchFile gamma-delta encodes the sorted arcs (spec.md §4.5's
// "batch file format: γ-coded source/destination deltas"), compresses
// the resulting bitstream with codec, and spills it to path with a
// length-prefixed frame and an xxhash64 trailer over the compressed
// payload. The uncompressed bitstream records its own arc count so a
// reader knows when to stop without relying on a raw end-of-file
// signal at the bit level — bitio.Reader treats every short read as an
// error rather than a clean EOF, so an explicit count is the practical
// form of "self-delimiting" here; see DESIGN.md.
func writeBatchFile(path string, arcs []arc, codec Codec) (err error) {
	sort.Slice(arcs, func(i, j int) bool { return arcs[i].less(arcs[j]) })

	var raw bytes.Buffer
	bw := bitio.NewWriter(&raw)
	if _, err := bitio.Delta.WriteTo(bw, uint64(len(arcs))); err != nil {
		return err
	}
	var prevSrc, prevDst uint64
	for i, a := range arcs {
		srcDelta := a.Src - prevSrc
		if _, err := bitio.Gamma.WriteTo(bw, srcDelta); err != nil {
			return err
		}
		var dstDelta uint64
		if i > 0 && a.Src == arcs[i-1].Src {
			dstDelta = a.Dst - prevDst
		} else {
			dstDelta = a.Dst
		}
		if _, err := bitio.Gamma.WriteTo(bw, dstDelta); err != nil {
			return err
		}
		prevSrc, prevDst = a.Src, a.Dst
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	compressed, err := codec.Compress(raw.Bytes())
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bufw := bufio.NewWriter(f)
	if _, err := bufw.WriteString(batchFileMagic); err != nil {
		return err
	}
	var hdr [16]byte
	binary.BigEndian.PutUint64(hdr[0:8], uint64(raw.Len()))
	binary.BigEndian.PutUint64(hdr[8:16], uint64(len(compressed)))
	if _, err := bufw.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := bufw.Write(compressed); err != nil {
		return err
	}
	var trailer [8]byte
	binary.BigEndian.PutUint64(trailer[:], xxhash.Sum64(compressed))
	if _, err := bufw.Write(trailer[:]); err != nil {
		return err
	}
	return bufw.Flush()
}

// batchReader is a disk-backed arcSource: it reads back a batch file
// written by writeBatchFile, verifying its checksum and decoding every
// arc when it is opened; Advance steps through the decoded arcs.
type batchReader struct {
	path  string
	arcs  []uint64 // flattened (src, dst) pairs, decoded eagerly: batches are bounded by B
	i     int
	cur   arc
	valid bool
}

func openBatchReader(path string, codec Codec) (*batchReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	if len(data) < len(batchFileMagic)+24 || string(data[:len(batchFileMagic)]) != batchFileMagic {
		return nil, bitio.Error("transform: not a batch file: " + path)
	}
	data = data[len(batchFileMagic):]
	rawLen := binary.BigEndian.Uint64(data[0:8])
	compLen := binary.BigEndian.Uint64(data[8:16])
	data = data[16:]
	if uint64(len(data)) < compLen+8 {
		return nil, bitio.Error("transform: truncated batch file: " + path)
	}
	compressed := data[:compLen]
	trailer := data[compLen : compLen+8]
	if binary.BigEndian.Uint64(trailer) != xxhash.Sum64(compressed) {
		return nil, bitio.Error("transform: batch file checksum mismatch: " + path)
	}

	raw, err := codec.Decompress(compressed, int(rawLen))
	if err != nil {
		return nil, err
	}

	br := &batchReader{}
	r := bitio.NewReader(bytes.NewReader(raw))
	n, err := bitio.Delta.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	br.arcs = make([]uint64, 0, 2*n)
	var prevSrc, prevDst uint64
	for i := uint64(0); i < n; i++ {
		srcDelta, err := bitio.Gamma.ReadFrom(r)
		if err != nil {
			return nil, err
		}
		dstDelta, err := bitio.Gamma.ReadFrom(r)
		if err != nil {
			return nil, err
		}
		src := prevSrc + srcDelta
		var dst uint64
		if i > 0 && srcDelta == 0 {
			dst = prevDst + dstDelta
		} else {
			dst = dstDelta
		}
		br.arcs = append(br.arcs, src, dst)
		prevSrc, prevDst = src, dst
	}
	br.path = path
	br.advanceLocked()
	return br, nil
}

func (b *batchReader) advanceLocked() {
	if 2*b.i+1 >= len(b.arcs) {
		b.valid = false
		return
	}
	b.cur = arc{Src: b.arcs[2*b.i], Dst: b.arcs[2*b.i+1]}
	b.i++
	b.valid = true
}

func (b *batchReader) Peek() (arc, bool, error) { return b.cur, b.valid, nil }

func (b *batchReader) Advance() error {
	b.advanceLocked()
	return nil
}

var _ arcSource = (*batchReader)(nil)

// sliceSource is an in-memory arcSource, used for batches small enough
// that spilling to disk isn't worthwhile and for tests.
type sliceSource struct {
	arcs []arc
	i    int
}

func newSliceSource(arcs []arc) *sliceSource {
	sorted := append([]arc(nil), arcs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })
	return &sliceSource{arcs: sorted}
}

func (s *sliceSource) Peek() (arc, bool, error) {
	if s.i >= len(s.arcs) {
		return arc{}, false, nil
	}
	return s.arcs[s.i], true, nil
}

func (s *sliceSource) Advance() error {
	if s.i < len(s.arcs) {
		s.i++
	}
	return nil
}

var _ arcSource = (*sliceSource)(nil)
