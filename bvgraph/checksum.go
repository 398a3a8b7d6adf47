package bvgraph

import (
	"hash/crc32"

	"github.com/dsnet/golib/hashutil"
)

// PartitionChecksum is a running CRC-32 over one parallel-compression
// worker's private bitstream partition (spec.md §9's "embarrassingly
// parallel" encode path): each worker hashes only the bytes it wrote, and
// the final concatenation step combines every partition's checksum
// algebraically via CombineCRC32 instead of re-scanning the merged bytes.
//
// Grounded directly on bzip2/common.go's combineCRC, which solves the
// same problem (per-block CRCs combined into one stream CRC) using the
// same library call.
type PartitionChecksum struct {
	crc uint32
	n   int64
}

// NewPartitionChecksum starts an empty checksum.
func NewPartitionChecksum() *PartitionChecksum {
	return &PartitionChecksum{}
}

// Write feeds buf into the running checksum. It never returns an error,
// satisfying io.Writer.
func (p *PartitionChecksum) Write(buf []byte) (int, error) {
	p.crc = crc32.Update(p.crc, crc32.IEEETable, buf)
	p.n += int64(len(buf))
	return len(buf), nil
}

// Sum32 returns the checksum of the bytes written so far.
func (p *PartitionChecksum) Sum32() uint32 { return p.crc }

// Len returns the number of bytes written so far.
func (p *PartitionChecksum) Len() int64 { return p.n }

// CombinePartitionChecksums combines a sequence of partition checksums, in
// the order their bytes appear in the final concatenated stream, into the
// checksum of the whole stream.
func CombinePartitionChecksums(parts []*PartitionChecksum) uint32 {
	var crc uint32
	for _, p := range parts {
		crc = hashutil.CombineCRC32(crc32.IEEE, crc, p.crc, p.n)
	}
	return crc
}
