// Package transform implements the batch-and-merge arc pipeline (spec.md
// §4.5) and the graph transforms built on it: transpose, permute, and
// symmetrize.
package transform

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compressor compresses a batch file's byte payload before it is spilled
// to disk.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. dstLen is the exact decompressed
// size, recorded in the batch file's header so decoders can pre-size
// their buffer.
type Decompressor interface {
	Decompress(data []byte, dstLen int) ([]byte, error)
}

// Codec combines both directions. Batcher's spill (writeBatchFile) and
// openBatchReader are parameterized over a Codec so a caller can trade spill-file size
// against spill/merge CPU cost (spec.md §4.5's "batch file format" note
// leaves compression of the batch body itself unspecified beyond the
// gamma/delta coding of the deltas it contains).
type Codec interface {
	Compressor
	Decompressor
}

// NoOpCodec performs no compression; batch files are the raw gamma/delta
// bitstream. Useful for small graphs or when CPU, not disk, is scarce.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte, dstLen int) ([]byte, error) { return data, nil }

// LZ4Codec trades compression ratio for speed, favoring spill/merge
// throughput over spill-file size.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// incompressible: lz4 signals this by returning n == 0
		return data, nil
	}
	return dst[:n], nil
}

func (LZ4Codec) Decompress(data []byte, dstLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, dstLen)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// S2Codec uses klauspost/compress/s2, a Snappy-compatible format tuned
// for streaming throughput; a reasonable middle ground between NoOpCodec
// and ZstdCodec.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte, dstLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}

// ZstdCodec favors spill-file size over CPU, for the large-graph case
// where disk bandwidth during the k-way merge dominates.
type ZstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec constructs a reusable encoder/decoder pair. Batcher does
// not create codecs of its own: the *Split transforms hand the same codec
// to every partition's Batcher.
func NewZstdCodec() (*ZstdCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCodec{enc: enc, dec: dec}, nil
}

func (c *ZstdCodec) Compress(data []byte) ([]byte, error) {
	return c.enc.EncodeAll(data, nil), nil
}

func (c *ZstdCodec) Decompress(data []byte, dstLen int) ([]byte, error) {
	return c.dec.DecodeAll(data, make([]byte, 0, dstLen))
}

// Close releases the underlying zstd decoder goroutines.
func (c *ZstdCodec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

// XzCodec favors compression ratio over everything else, for cold
// archival batches where spill files are expected to sit on disk for a
// long time between the spill and merge phases.
type XzCodec struct{}

var _ Codec = XzCodec{}

func (XzCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (XzCodec) Decompress(data []byte, dstLen int) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	dst := make([]byte, 0, dstLen)
	buf := bytes.NewBuffer(dst)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CodecByName resolves one of the above by name, for config-driven
// selection (e.g. a CLI flag). Names: "none", "lz4", "s2", "zstd", "xz".
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "none":
		return NoOpCodec{}, nil
	case "lz4":
		return LZ4Codec{}, nil
	case "s2":
		return S2Codec{}, nil
	case "zstd":
		return NewZstdCodec()
	case "xz":
		return XzCodec{}, nil
	default:
		return nil, fmt.Errorf("transform: unknown codec %q", name)
	}
}
