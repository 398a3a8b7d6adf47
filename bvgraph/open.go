package bvgraph

import (
	"os"

	"github.com/dsnet/webgraph/bitio"
	"github.com/dsnet/webgraph/eliasfano"
)

// Open loads a compressed graph from the three-file layout spec.md §6
// describes: basename+".graph" (the bitstream), basename+".properties"
// (parameters), and basename+".ef" (the serialized offset index) if
// present. When the ".ef" file is absent, the offset index is rebuilt by
// rescanning basename+".graph" with a Scanner, per spec.md §6's "Produced
// from .offsets or by rescanning .graph."
func Open(basename string) (*Graph, error) {
	propsFile, err := os.Open(basename + ".properties")
	if err != nil {
		return nil, err
	}
	props, err := LoadProperties(propsFile)
	propsFile.Close()
	if err != nil {
		return nil, err
	}

	mapped, err := openMapped(basename + ".graph")
	if err != nil {
		return nil, err
	}
	words := mapped.Words()

	idx, err := loadOrBuildOffsetIndex(basename, words, props)
	if err != nil {
		mapped.Close()
		return nil, err
	}

	return NewGraph(words, idx, props), nil
}

func loadOrBuildOffsetIndex(basename string, words []uint32, props Properties) (offsetIndex, error) {
	if ef, err := os.Open(basename + ".ef"); err == nil {
		defer ef.Close()
		return eliasfano.Deserialize(ef)
	}
	r := bitio.NewMemReader(words)
	s := NewScanner(r, props.Flags, props.Nodes, props.WindowSize, props.MinIntervalLength)
	return BuildOffsetIndex(s)
}
