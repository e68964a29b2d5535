package patterns

import (
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/types"
)

// Refine returns the types of the variables bound by p when matching a
// value of type scrutinee. Variables whose type cannot be narrowed down
// from scrutinee are left out.
func Refine(scrutinee types.Type, p ast.Pattern) map[string]types.Type {
	refined := make(map[string]types.Type)
	refineInto(refined, scrutinee, p)
	return refined
}

func refineInto(into map[string]types.Type, t types.Type, p ast.Pattern) {
	if t == nil {
		return
	}
	if mu, ok := t.(*types.Recursive); ok {
		t = mu.Unfold()
	}
	switch p := p.(type) {
	case *ast.VarPattern:
		if _, unknown := t.(*types.Var); !unknown {
			into[p.Name] = t
		}
	case *ast.TuplePattern:
		for i, elem := range p.Elems {
			refineInto(into, tupleElem(Narrow(t, p), i, len(p.Elems)), elem)
		}
	case *ast.RecordPattern:
		narrowed := Narrow(t, p)
		for _, f := range p.Fields {
			refineInto(into, recordField(narrowed, f.Name), f.Pattern)
		}
	}
}

// Narrow keeps the alternatives of a union scrutinee which p could match
func Narrow(scrutinee types.Type, p ast.Pattern) types.Type {
	if mu, ok := scrutinee.(*types.Recursive); ok {
		scrutinee = mu.Unfold()
	}
	u, ok := scrutinee.(*types.Union)
	if !ok {
		return scrutinee
	}
	var kept []types.Type
	for _, alt := range u.Alts {
		if Compatible(p, alt) {
			kept = append(kept, alt)
		}
	}
	if len(kept) == 0 {
		return scrutinee
	}
	return types.MustUnion(kept...)
}

// Compatible reports whether p could match some value of type t.
// Type variables and String are compatible with any string literal.
func Compatible(p ast.Pattern, t types.Type) bool {
	if ast.IsIrrefutable(p) {
		return true
	}
	switch t := t.(type) {
	case *types.Var:
		return true
	case *types.Recursive:
		return Compatible(p, t.Unfold())
	case *types.Union:
		for _, alt := range t.Alts {
			if Compatible(p, alt) {
				return true
			}
		}
		return false
	}
	switch p := p.(type) {
	case *ast.LiteralPattern:
		switch t := t.(type) {
		case types.Literal:
			return p.Kind == ast.StringLiteral && p.Value == t.Value
		case types.Primitive:
			return literalPrimitive(p.Kind) == t
		default:
			return false
		}
	case *ast.TuplePattern:
		tuple, ok := t.(*types.Tuple)
		if !ok || len(tuple.Elems) != len(p.Elems) {
			return false
		}
		for i, elem := range p.Elems {
			if !Compatible(elem, tuple.Elems[i]) {
				return false
			}
		}
		return true
	case *ast.RecordPattern:
		record, ok := t.(*types.Record)
		if !ok {
			return false
		}
		for _, f := range p.Fields {
			field, has := record.Field(f.Name)
			if !has {
				if !record.IsOpen() {
					return false
				}
				continue
			}
			if !Compatible(f.Pattern, field) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func literalPrimitive(kind ast.LiteralKind) types.Primitive {
	switch kind {
	case ast.IntLiteral:
		return types.Int
	case ast.StringLiteral:
		return types.String
	case ast.BoolLiteral:
		return types.Bool
	default:
		return types.Unit
	}
}

func tupleElem(t types.Type, i, arity int) types.Type {
	switch t := t.(type) {
	case *types.Tuple:
		if len(t.Elems) == arity {
			return t.Elems[i]
		}
	case *types.Union:
		var elems []types.Type
		for _, alt := range t.Alts {
			if tuple, ok := alt.(*types.Tuple); ok && len(tuple.Elems) == arity {
				elems = append(elems, tuple.Elems[i])
			}
		}
		if len(elems) > 0 {
			return types.MustUnion(elems...)
		}
	}
	return nil
}

// recordField is the type of name in t, or the union of its types across
// the alternatives of t that all have it
func recordField(t types.Type, name string) types.Type {
	switch t := t.(type) {
	case *types.Record:
		if field, ok := t.Field(name); ok {
			return field
		}
	case *types.Union:
		var fields []types.Type
		for _, alt := range t.Alts {
			record, ok := alt.(*types.Record)
			if !ok {
				return nil
			}
			field, ok := record.Field(name)
			if !ok {
				return nil
			}
			fields = append(fields, field)
		}
		if len(fields) > 0 {
			return types.MustUnion(fields...)
		}
	}
	return nil
}
