//go:build unix

package bvgraph

import (
	"os"
	"syscall"
)

// mappedFile is an open, memory-mapped graph file. openMapped and its
// Close are the only stdlib-only (no third-party library) pieces of this
// package: mmap is an OS syscall with no portable library wrapper carried
// by the teacher or the rest of the example pack, and spec.md's own
// design notes call the mapped-file path out explicitly as an accepted
// platform-specific exception.
type mappedFile struct {
	f    *os.File
	data []byte
}

// openMapped opens path and maps its entire contents read-only.
func openMapped(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &mappedFile{f: f}, nil
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mappedFile{f: f, data: data}, nil
}

// Words converts the mapped bytes into a []uint32 slice, per spec.md
// §4.1's mapped-u32-slice backing for bitio.MemReader. The file is
// expected to already be a whole number of 32-bit words, padded with
// trailing zero bits by the writer if necessary.
//
// This copies once rather than reinterpreting the mapping in place:
// MemReader's words are big-endian-packed regardless of host byte order,
// so a genuinely zero-copy path would need an unsafe reinterpret plus a
// byte-swap on every read on little-endian hosts. The mmap itself still
// avoids paging in the whole file up front; only the one conversion pass
// touches every page.
func (m *mappedFile) Words() []uint32 {
	if len(m.data) == 0 {
		return nil
	}
	n := len(m.data) / 4
	words := make([]uint32, n)
	for i := range words {
		words[i] = uint32(m.data[4*i])<<24 | uint32(m.data[4*i+1])<<16 |
			uint32(m.data[4*i+2])<<8 | uint32(m.data[4*i+3])
	}
	return words
}

// Close unmaps and closes the underlying file.
func (m *mappedFile) Close() error {
	if m.data != nil {
		if err := syscall.Munmap(m.data); err != nil {
			m.f.Close()
			return err
		}
	}
	return m.f.Close()
}
