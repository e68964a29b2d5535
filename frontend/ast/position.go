package ast

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Position is a line/column pair in the original source, both starting at 1.
// The zero Position is not valid and means the location is unknown.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Positioner allows finding the location in the original source file.
type Positioner interface {
	Pos() Position // position of first character belonging to the node
	End() Position // position of first character immediately after the node
}

// Range represents a range of positions in the source code.
type Range struct {
	PosStart Position
	PosEnd   Position
}

// At is a Range spanning a single position, for building trees by hand
func At(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{PosStart: p, PosEnd: p}
}

// Hash returns a hash value for the Range
func (r Range) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte{}
	arr = binary.LittleEndian.AppendUint64(arr, uint64(r.PosStart.Line))
	arr = binary.LittleEndian.AppendUint64(arr, uint64(r.PosStart.Column))
	arr = binary.LittleEndian.AppendUint64(arr, uint64(r.PosEnd.Line))
	arr = binary.LittleEndian.AppendUint64(arr, uint64(r.PosEnd.Column))
	_, _ = h.Write(arr)
	return h.Sum64()
}

// Pos returns the starting position of the range.
func (r Range) Pos() Position { return r.PosStart }

// End returns the ending position of the range.
func (r Range) End() Position { return r.PosEnd }

// String returns a string representation of the range.
func (r Range) String() string {
	if r.PosStart == r.PosEnd {
		return r.PosStart.String()
	}
	return fmt.Sprintf("%v-%v", r.PosStart, r.PosEnd)
}

// RangeBetween creates a Range between two Positioners.
func RangeBetween(fst, snd Positioner) Range {
	return Range{fst.Pos(), snd.End()}
}

// RangeOf creates a Range from a Positioner.
func RangeOf(node Positioner) Range {
	if node == nil {
		return Range{}
	}
	if asRange, ok := node.(*Range); ok {
		return *asRange
	}
	if asRange, ok := node.(Range); ok {
		return asRange
	}
	return Range{node.Pos(), node.End()}
}

// hashOf mixes a node tag with the hashes of its children
func hashOf(tag string, parts ...uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tag))
	arr := make([]byte, 0, 8*len(parts))
	for _, part := range parts {
		arr = binary.LittleEndian.AppendUint64(arr, part)
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
