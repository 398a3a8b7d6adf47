package bvgraph

import "github.com/dsnet/webgraph/bitio"

// StaticCodec pins each of CompressionFlags' five fields to a concrete
// type parameter instead of boxing them behind the bitio.Code interface,
// per spec.md §4.3.8's "compile-time-specialized" decoder variant: every
// WriteTo/ReadFrom call inside decodeListStatic resolves directly against
// a concrete method set rather than through an interface vtable, since
// the compiler monomorphizes one decodeListStatic per distinct
// [O, R, B, I, Res] instantiation. This is an alternative to, not a
// replacement for, the dynamic CompressionFlags path decodeList uses,
// which is the only option when the five codes in play aren't known
// until a properties sidecar is parsed at runtime.
type StaticCodec[O, R, B, I, Res bitio.Code] struct {
	Outdegrees O
	References R
	Blocks     B
	Intervals  I
	Residuals  Res
}

// NewStaticCodec builds a StaticCodec from five concrete code values.
func NewStaticCodec[O, R, B, I, Res bitio.Code](outdegrees O, references R, blocks B, intervals I, residuals Res) StaticCodec[O, R, B, I, Res] {
	return StaticCodec[O, R, B, I, Res]{
		Outdegrees: outdegrees,
		References: references,
		Blocks:     blocks,
		Intervals:  intervals,
		Residuals:  residuals,
	}
}

// Flags projects a StaticCodec back to the dynamic CompressionFlags
// representation it specializes, e.g. for comparison against a graph's
// parsed properties sidecar.
func (c StaticCodec[O, R, B, I, Res]) Flags() CompressionFlags {
	return CompressionFlags{
		Outdegrees: c.Outdegrees,
		References: c.References,
		Blocks:     c.Blocks,
		Intervals:  c.Intervals,
		Residuals:  c.Residuals,
	}
}

// defaultStaticCodec is the one field combination this package ships a
// compile-time specialization for: spec.md §6's documented defaults
// (γ/unary/γ/γ/ζ₃), the combination Encoder itself uses unless told
// otherwise. Go generics require every instantiation to be named at
// compile time, so a StaticCodec can only ever cover combinations chosen
// ahead of time like this one — there is no way to monomorphize over a
// combination only known once a properties sidecar has been parsed.
// Graphs written with any other combination fall back to decodeList's
// dynamic CompressionFlags dispatch; see selectDecodeFn.
func defaultStaticCodec() StaticCodec[bitio.GammaCode, bitio.UnaryCode, bitio.GammaCode, bitio.GammaCode, bitio.ZetaCode] {
	return NewStaticCodec(bitio.GammaCode{}, bitio.UnaryCode{}, bitio.GammaCode{}, bitio.GammaCode{}, bitio.ZetaCode{K: 3})
}

// decodeFn is the shape shared by decodeList and every decodeListStatic
// instantiation, letting Graph and Decoder hold either behind one field
// without boxing the five individual codes themselves.
type decodeFn func(r bitio.BitReader, wsize, lmin int, v uint64, resolve resolver) (succ []uint64, depth int, err error)

// selectDecodeFn picks decodeListStatic's compile-time-specialized path
// when flags exactly match defaultStaticCodec's combination, falling
// back to the dynamic decodeList otherwise. Compared by String() (the
// sidecar's own notion of equality between two CompressionFlags) rather
// than by field-by-field bitio.Code comparison, since bitio.Code values
// like ZetaCode carry no exported way to compare two instances for
// equality other than the name they serialize to.
func selectDecodeFn(flags CompressionFlags) decodeFn {
	def := defaultStaticCodec()
	if flags.String() == def.Flags().String() {
		return func(r bitio.BitReader, wsize, lmin int, v uint64, resolve resolver) ([]uint64, int, error) {
			return decodeListStatic(r, def, wsize, lmin, v, resolve)
		}
	}
	return func(r bitio.BitReader, wsize, lmin int, v uint64, resolve resolver) ([]uint64, int, error) {
		return decodeList(r, flags, wsize, lmin, v, resolve)
	}
}

// decodeListStatic is decodeList's logic specialized over a StaticCodec's
// five concrete code types instead of CompressionFlags' boxed bitio.Code
// fields; see decodeList for the wire format this mirrors.
func decodeListStatic[O, R, B, I, Res bitio.Code](r bitio.BitReader, codec StaticCodec[O, R, B, I, Res], wsize, lmin int, v uint64, resolve resolver) (succ []uint64, depth int, err error) {
	d, err := codec.Outdegrees.ReadFrom(r)
	if err != nil {
		return nil, 0, err
	}

	var refR uint64
	if d > 0 && wsize > 0 {
		refR, err = codec.References.ReadFrom(r)
		if err != nil {
			return nil, 0, err
		}
	}

	var copied []uint64
	if refR > 0 {
		if refR > v {
			return nil, 0, Error("reference offset exceeds source node id")
		}
		refSucc, refDepth, err := resolve(v - refR)
		if err != nil {
			return nil, 0, err
		}
		copied, err = readBlockListStatic(r, codec.Blocks, refSucc)
		if err != nil {
			return nil, 0, err
		}
		depth = refDepth + 1
	}

	intervals, residuals, err := readRemainderStatic(r, codec.Intervals, codec.Residuals, v, lmin, int(d)-len(copied))
	if err != nil {
		return nil, 0, err
	}

	succ = mergeThree(copied, intervals, residuals)
	if uint64(len(succ)) != d {
		return nil, 0, Error("decoded successor count does not match outdegree")
	}
	return succ, depth, nil
}

// readBlockListStatic mirrors readBlockList, reading against a concrete
// code type instead of a boxed CompressionFlags field.
func readBlockListStatic[B bitio.Code](r bitio.BitReader, blocks B, refSucc []uint64) ([]uint64, error) {
	count, err := blocks.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	lens := make([]uint64, count)
	for i := uint64(0); i < count; i++ {
		v, err := blocks.ReadFrom(r)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			lens[i] = v
		} else {
			lens[i] = v + 1
		}
	}
	var copied []uint64
	pos := 0
	copying := false
	for _, blen := range lens {
		n := int(blen)
		if copying && n > 0 {
			copied = append(copied, refSucc[pos:pos+n]...)
		}
		pos += n
		copying = !copying
	}
	return copied, nil
}

// readRemainderStatic mirrors readRemainder, reading against two concrete
// code types instead of boxed CompressionFlags fields.
func readRemainderStatic[I, Res bitio.Code](r bitio.BitReader, intervalsCode I, residualsCode Res, v uint64, lmin int, remaining int) (intervals []interval, residuals []uint64, err error) {
	count, err := intervalsCode.ReadFrom(r)
	if err != nil {
		return nil, nil, err
	}
	intervals = make([]interval, 0, count)
	var prevEnd uint64
	for i := uint64(0); i < count; i++ {
		var start uint64
		if i == 0 {
			d, err := intervalsCode.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			start = uint64(int64(v) + bitio.Unzigzag(d))
		} else {
			d, err := intervalsCode.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			start = prevEnd + d
		}
		length, err := intervalsCode.ReadFrom(r)
		if err != nil {
			return nil, nil, err
		}
		length += uint64(lmin)
		intervals = append(intervals, interval{start: start, length: length})
		prevEnd = start + length
		remaining -= int(length)
	}
	if remaining < 0 {
		return nil, nil, Error("interval lengths exceed outdegree")
	}
	numResiduals := remaining
	residuals = make([]uint64, 0, numResiduals)
	var prev uint64
	for i := 0; i < numResiduals; i++ {
		if i == 0 {
			d, err := residualsCode.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			prev = uint64(int64(v) + bitio.Unzigzag(d))
		} else {
			d, err := residualsCode.ReadFrom(r)
			if err != nil {
				return nil, nil, err
			}
			prev = prev + d + 1
		}
		residuals = append(residuals, prev)
	}
	return intervals, residuals, nil
}
