//go:build nobuild

package transform

import "github.com/valyala/gozstd"

// cgoZstdCodec is an alternate ZstdCodec built on the cgo zstd bindings,
// for environments where cgo is available and the extra throughput of
// the C library is worth the build complexity. It is excluded from
// normal builds (nobuild) the same way the codec it's adapted from
// keeps its cgo variant opt-in; NewZstdCodec's pure-Go implementation is
// the default.
type cgoZstdCodec struct{}

var _ Codec = cgoZstdCodec{}

func (cgoZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (cgoZstdCodec) Decompress(data []byte, dstLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return gozstd.Decompress(make([]byte, 0, dstLen), data)
}
