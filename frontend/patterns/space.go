package patterns

import (
	"strings"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/types"
)

// maxSpaceSize bounds the number of values enumerated for one scrutinee,
// so that wide tuples of unions do not blow up
const maxSpaceSize = 256

// space is a set of values of some type, described the way a pattern
// matching all of them would be written
type space interface {
	String() string
	_space()
}

// spaceAnything stands for values that cannot be enumerated, such as all Ints
type spaceAnything struct{}

type spaceLiteral struct {
	Kind  ast.LiteralKind
	Value string
}

type spaceTuple struct {
	Elems []space
}

type spaceRecord struct {
	Names  []string
	Fields []space
}

func (spaceAnything) _space() {}
func (spaceLiteral) _space()  {}
func (spaceTuple) _space()    {}
func (spaceRecord) _space()   {}

func (spaceAnything) String() string { return "_" }

func (s spaceLiteral) String() string {
	return (&ast.LiteralPattern{Kind: s.Kind, Value: s.Value}).CanonicalSyntax()
}

func (s spaceTuple) String() string {
	elems := make([]string, 0, len(s.Elems))
	for _, e := range s.Elems {
		elems = append(elems, e.String())
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// String only shows the fields that narrow the record down
func (s spaceRecord) String() string {
	var fields []string
	for i, name := range s.Names {
		if _, wild := s.Fields[i].(spaceAnything); wild {
			continue
		}
		fields = append(fields, name+": "+s.Fields[i].String())
	}
	if len(fields) == 0 {
		return "_"
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

var (
	spaceTrue  = spaceLiteral{Kind: ast.BoolLiteral, Value: "true"}
	spaceFalse = spaceLiteral{Kind: ast.BoolLiteral, Value: "false"}
	spaceUnit  = spaceLiteral{Kind: ast.UnitLiteral, Value: "()"}
)

// enumerate lists disjoint spaces which together make up every value of t.
// It reports false when there would be more than maxSpaceSize of them.
func enumerate(t types.Type) ([]space, bool) {
	return enumerateIn(t, map[int]bool{})
}

func enumerateIn(t types.Type, unfolding map[int]bool) ([]space, bool) {
	switch t := t.(type) {
	case types.Primitive:
		switch t {
		case types.Bool:
			return []space{spaceTrue, spaceFalse}, true
		case types.Unit:
			return []space{spaceUnit}, true
		default:
			return []space{spaceAnything{}}, true
		}
	case types.Literal:
		return []space{spaceLiteral{Kind: ast.StringLiteral, Value: t.Value}}, true
	case *types.Union:
		var all []space
		for _, alt := range t.Alts {
			spaces, ok := enumerateIn(alt, unfolding)
			if !ok {
				return nil, false
			}
			all = append(all, spaces...)
			if len(all) > maxSpaceSize {
				return nil, false
			}
		}
		return all, true
	case *types.Tuple:
		product := [][]space{{}}
		for _, elem := range t.Elems {
			spaces, ok := enumerateIn(elem, unfolding)
			if !ok {
				return nil, false
			}
			product, ok = extend(product, spaces)
			if !ok {
				return nil, false
			}
		}
		tuples := make([]space, 0, len(product))
		for _, elems := range product {
			tuples = append(tuples, spaceTuple{Elems: elems})
		}
		return tuples, true
	case *types.Record:
		names := t.FieldNames()
		product := [][]space{{}}
		for _, name := range names {
			field, _ := t.Field(name)
			spaces, ok := enumerateIn(field, unfolding)
			if !ok {
				return nil, false
			}
			product, ok = extend(product, spaces)
			if !ok {
				return nil, false
			}
		}
		records := make([]space, 0, len(product))
		for _, fields := range product {
			records = append(records, spaceRecord{Names: names, Fields: fields})
		}
		return records, true
	case *types.Recursive:
		if unfolding[t.Binder.ID] {
			return []space{spaceAnything{}}, true
		}
		unfolding[t.Binder.ID] = true
		defer delete(unfolding, t.Binder.ID)
		return enumerateIn(t.Unfold(), unfolding)
	default:
		return []space{spaceAnything{}}, true
	}
}

// extend is the cartesian product of product with spaces
func extend(product [][]space, spaces []space) ([][]space, bool) {
	if len(product)*len(spaces) > maxSpaceSize {
		return nil, false
	}
	extended := make([][]space, 0, len(product)*len(spaces))
	for _, prefix := range product {
		for _, s := range spaces {
			row := make([]space, len(prefix), len(prefix)+1)
			copy(row, prefix)
			extended = append(extended, append(row, s))
		}
	}
	return extended, true
}

// covers reports whether p matches every value in s
func covers(p ast.Pattern, s space) bool {
	if ast.IsIrrefutable(p) {
		return true
	}
	switch s := s.(type) {
	case spaceLiteral:
		lit, ok := p.(*ast.LiteralPattern)
		return ok && lit.Kind == s.Kind && lit.Value == s.Value
	case spaceTuple:
		tuple, ok := p.(*ast.TuplePattern)
		if !ok || len(tuple.Elems) != len(s.Elems) {
			return false
		}
		for i, elem := range tuple.Elems {
			if !covers(elem, s.Elems[i]) {
				return false
			}
		}
		return true
	case spaceRecord:
		record, ok := p.(*ast.RecordPattern)
		if !ok {
			return false
		}
		for _, f := range record.Fields {
			if !covers(f.Pattern, s.field(f.Name)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (s spaceRecord) field(name string) space {
	for i, n := range s.Names {
		if n == name {
			return s.Fields[i]
		}
	}
	return spaceAnything{}
}

// fromPattern is the space of values p matches, where variables match anything
func fromPattern(p ast.Pattern) space {
	switch p := p.(type) {
	case *ast.LiteralPattern:
		return spaceLiteral{Kind: p.Kind, Value: p.Value}
	case *ast.TuplePattern:
		elems := make([]space, 0, len(p.Elems))
		for _, e := range p.Elems {
			elems = append(elems, fromPattern(e))
		}
		return spaceTuple{Elems: elems}
	case *ast.RecordPattern:
		s := spaceRecord{}
		for _, f := range p.Fields {
			s.Names = append(s.Names, f.Name)
			s.Fields = append(s.Fields, fromPattern(f.Pattern))
		}
		return s
	default:
		return spaceAnything{}
	}
}

// Subsumes reports whether every value matched by later is already
// matched by earlier
func Subsumes(earlier, later ast.Pattern) bool {
	return covers(earlier, fromPattern(later))
}
