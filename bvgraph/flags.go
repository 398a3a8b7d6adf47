package bvgraph

import (
	"strings"

	"github.com/dsnet/webgraph/bitio"
)

// CompressionFlags selects the instantaneous code used for each of the
// five fields an encoded list is built from (spec.md §4.3, §6). The zero
// value is not valid; use DefaultCompressionFlags or ParseCompressionFlags.
type CompressionFlags struct {
	Outdegrees bitio.Code
	References bitio.Code
	Blocks     bitio.Code
	Intervals  bitio.Code
	Residuals  bitio.Code
}

// DefaultCompressionFlags returns spec.md §6's documented defaults: γ for
// outdegrees/blocks/intervals, unary for references, ζ₃ for residuals.
func DefaultCompressionFlags() CompressionFlags {
	return CompressionFlags{
		Outdegrees: bitio.Gamma,
		References: bitio.Unary,
		Blocks:     bitio.Gamma,
		Intervals:  bitio.Gamma,
		Residuals:  bitio.ZetaCode{K: 3},
	}
}

// fieldNames lists the five FIELD tokens in the canonical order they are
// serialized, matching spec.md §6's "Recognized FIELD values."
var fieldNames = [5]string{"OUTDEGREES", "REFERENCES", "BLOCKS", "INTERVALS", "RESIDUALS"}

// ParseCompressionFlags parses a `|`-separated `FIELD_CODE` list (the
// `compressionflags` property) against a base of defaults, overriding
// only the fields named. version and zetaK disambiguate the bare "ZETA"
// token, which is only legal under version 0.
func ParseCompressionFlags(s string, version, zetaK int) (CompressionFlags, error) {
	flags := DefaultCompressionFlags()
	if s == "" {
		return flags, nil
	}
	for _, tok := range strings.Split(s, "|") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		us := strings.IndexByte(tok, '_')
		if us < 0 {
			return CompressionFlags{}, Error("malformed compressionflags token: " + tok)
		}
		field, codeName := tok[:us], tok[us+1:]
		code, err := resolveCode(codeName, version, zetaK)
		if err != nil {
			return CompressionFlags{}, err
		}
		if err := flags.set(field, code); err != nil {
			return CompressionFlags{}, err
		}
	}
	return flags, nil
}

func resolveCode(name string, version, zetaK int) (bitio.Code, error) {
	if name == "ZETA" {
		if version != 0 {
			return nil, Error("bare ZETA code name is only valid under version 0")
		}
		if zetaK <= 0 {
			return nil, Error("version 0 ZETA code requires a zetak property")
		}
		return bitio.ZetaCode{K: zetaK}, nil
	}
	code, ok := bitio.ByName(name)
	if !ok {
		return nil, Error("unknown code name: " + name)
	}
	return code, nil
}

func (f *CompressionFlags) set(field string, code bitio.Code) error {
	switch field {
	case "OUTDEGREES":
		f.Outdegrees = code
	case "REFERENCES":
		f.References = code
	case "BLOCKS":
		f.Blocks = code
	case "INTERVALS":
		f.Intervals = code
	case "RESIDUALS":
		f.Residuals = code
	default:
		return Error("unknown field name: " + field)
	}
	return nil
}

func (f CompressionFlags) get(field string) bitio.Code {
	switch field {
	case "OUTDEGREES":
		return f.Outdegrees
	case "REFERENCES":
		return f.References
	case "BLOCKS":
		return f.Blocks
	case "INTERVALS":
		return f.Intervals
	default:
		return f.Residuals
	}
}

// String serializes only the fields differing from the default, in
// fieldNames order, matching the sidecar's documented "non-default codes"
// convention.
func (f CompressionFlags) String() string {
	def := DefaultCompressionFlags()
	var toks []string
	for _, field := range fieldNames {
		code := f.get(field)
		if code.String() != def.get(field).String() {
			toks = append(toks, field+"_"+code.String())
		}
	}
	return strings.Join(toks, "|")
}
