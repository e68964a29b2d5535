package solver

import (
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/util"
)

func (s *Solver) instance(c *constraint.Instance) ilerr.IleError {
	switch c.Class {
	case constraint.Printable:
		return nil
	case constraint.Comparable:
		if s.isComparable(c.Type, 0) {
			return nil
		}
		return ilerr.New(ilerr.NewTypeClassFailure{Positioner: c, Type: c.Type.String(), Class: c.Class})
	default:
		return ilerr.New(ilerr.NewTypeClassFailure{Positioner: c, Type: c.Type.String(), Class: c.Class, Unknown: true})
	}
}

// isComparable holds for primitives and literal strings, and for tuples
// and records made only of comparable parts. A variable is accepted since
// nothing is known about it yet.
func (s *Solver) isComparable(t types.Type, depth int) bool {
	if depth > s.config.MaxDepth {
		return false
	}
	switch t := t.(type) {
	case types.Primitive, types.Literal, *types.Var:
		return true
	case *types.Tuple:
		return util.AllOf(t.Elems, func(elem types.Type) bool { return s.isComparable(elem, depth+1) })
	case *types.Record:
		for _, field := range t.All() {
			if !s.isComparable(field, depth+1) {
				return false
			}
		}
		return true
	case *types.Union:
		return util.AllOf(t.Alts, func(alt types.Type) bool { return s.isComparable(alt, depth+1) })
	case *types.Alias:
		def, ok := s.registry.Lookup(t.Name)
		if !ok {
			return false
		}
		expanded, ok := def.Expand(t.Args)
		return ok && s.isComparable(expanded, depth+1)
	default:
		return false
	}
}
