package bvgraph

import (
	"bytes"
	"io"

	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/graph"
	"github.com/dsnet/webgraph/transform"
)

// partitionEncodeResult is one partition's encoded, byte-aligned bitstream
// plus the running checksum collected while writing it.
type partitionEncodeResult struct {
	bytes    []byte
	checksum *PartitionChecksum
}

// EncodeGraphParallel compresses src's adjacency lists across numPartitions
// independent node-range partitions, each encoded concurrently on a
// transform.Pool of workers, then concatenated into one bitstream: spec.md
// §5's "Compression pipeline parallelism" embarrassingly-parallel encode
// path, generalizing the single-threaded Encoder to a worker-per-partition
// pipeline the same way transform's *Split transforms generalize their
// sequential counterparts (see transform.runSplit).
//
// Each partition's Encoder starts with its own empty sliding window, so no
// reference ever crosses a partition boundary — a partition's first
// min(windowSize, partition size) nodes necessarily encode with a smaller
// effective window than windowSize, trading a little compression ratio for
// independence between workers. Every partition is flushed to a byte
// boundary (bitio.Writer.Flush zero-pads) before the next is appended, and
// partitionOffsets holds the starting bit offset of each partition. The
// padding bits sit between the last list of one partition and the first
// list of the next, so a single sequential Decoder or Scanner cannot walk
// the concatenation end to end; each partition decodes from its own
// offset. Per-node bit offsets are not returned.
//
// The returned checksum is each partition's own running CRC-32, combined
// algebraically via CombinePartitionChecksums rather than by re-scanning
// the concatenated bytes, mirroring bzip2/common.go's combineCRC's block
// checksums combined into one stream CRC.
func EncodeGraphParallel(src graph.Splittable, numNodes uint64, flags CompressionFlags, windowSize, maxRefCount, minIntervalLength, numPartitions, workers int) (words []uint32, partitionOffsets []uint64, dataLen int, checksum uint32, err error) {
	parts := src.SplitIter(numPartitions)
	results := make([]partitionEncodeResult, len(parts))
	errs := make([]error, len(parts))

	pool := transform.NewPool(workers, len(parts))
	for i, part := range parts {
		i, part := i, part
		pool.Submit(func() error {
			out, perr := encodePartition(part, flags, windowSize, maxRefCount, minIntervalLength)
			if perr != nil {
				errs[i] = perr
				return perr
			}
			results[i] = out
			return nil
		})
	}
	if err := pool.Close(); err != nil {
		return nil, nil, 0, 0, err
	}
	for _, e := range errs {
		if e != nil {
			return nil, nil, 0, 0, e
		}
	}

	var all bytes.Buffer
	offsets := make([]uint64, len(results))
	checks := make([]*PartitionChecksum, len(results))
	for i, res := range results {
		offsets[i] = uint64(all.Len()) * 8
		all.Write(res.bytes)
		checks[i] = res.checksum
	}
	return wordsFromBytes(all.Bytes()), offsets, all.Len(), CombinePartitionChecksums(checks), nil
}

// encodePartition runs one contiguous node-range partition through a fresh
// Encoder into a private buffer, tee'd through a PartitionChecksum so the
// caller never has to re-hash bytes this worker already saw once.
func encodePartition(part graph.Sequential, flags CompressionFlags, windowSize, maxRefCount, minIntervalLength int) (partitionEncodeResult, error) {
	var buf bytes.Buffer
	pc := NewPartitionChecksum()
	w := bitio.NewWriter(io.MultiWriter(&buf, pc))
	enc := NewEncoder(w, flags, windowSize, maxRefCount, minIntervalLength)

	for part.NextNode() {
		v := part.Node()
		var succ []uint64
		for s := range part.Successors() {
			succ = append(succ, s)
		}
		enc.StartNode(v)
		if _, err := enc.Push(succ); err != nil {
			return partitionEncodeResult{}, err
		}
	}
	if err := part.Err(); err != nil {
		return partitionEncodeResult{}, err
	}
	if err := w.Flush(); err != nil {
		return partitionEncodeResult{}, err
	}
	return partitionEncodeResult{bytes: append([]byte(nil), buf.Bytes()...), checksum: pc}, nil
}

// wordsFromBytes packs data (MSB-first, matching bitio.Writer's
// convention) into []uint32 words suitable for bitio.MemReader, zero-padding
// the final partial word.
func wordsFromBytes(data []byte) []uint32 {
	n := (len(data) + 3) / 4
	words := make([]uint32, n)
	for i, b := range data {
		words[i/4] |= uint32(b) << uint(24-8*(i%4))
	}
	return words
}
