package types

import (
	"cmp"

	"github.com/hashicorp/go-set/v3"
)

// Equivalent compares a and b structurally. Union and intersection members
// are compared regardless of order, and recursive types are equivalent up
// to renaming of their binders.
func Equivalent(a, b Type) bool {
	return equivalent(a, b, nil)
}

// binders maps the binder ids of the left-hand side to those of the right
type binders map[int]int

func (bs binders) with(l, r int) binders {
	extended := make(binders, len(bs)+1)
	for k, v := range bs {
		extended[k] = v
	}
	extended[l] = r
	return extended
}

func equivalent(a, b Type, bs binders) bool {
	switch a := a.(type) {
	case *Var:
		b, ok := b.(*Var)
		if !ok {
			return false
		}
		if mapped, bound := bs[a.ID]; bound {
			return mapped == b.ID
		}
		return a.ID == b.ID
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a.Name == b.Name
	case Literal:
		b, ok := b.(Literal)
		return ok && a.Value == b.Value
	case *Func:
		b, ok := b.(*Func)
		return ok && equivalent(a.Param, b.Param, bs) && equivalent(a.Result, b.Result, bs)
	case *Record:
		b, ok := b.(*Record)
		if !ok || a.Len() != b.Len() || (a.Row == nil) != (b.Row == nil) {
			return false
		}
		if a.Row != nil && !equivalent(a.Row, b.Row, bs) {
			return false
		}
		for name, fieldA := range a.All() {
			fieldB, ok := b.Field(name)
			if !ok || !equivalent(fieldA, fieldB, bs) {
				return false
			}
		}
		return true
	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !equivalent(a.Elems[i], b.Elems[i], bs) {
				return false
			}
		}
		return true
	case *Union:
		b, ok := b.(*Union)
		return ok && sameMembers(a.Alts, b.Alts, bs)
	case *Intersection:
		b, ok := b.(*Intersection)
		return ok && sameMembers(a.Members, b.Members, bs)
	case *Alias:
		b, ok := b.(*Alias)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !equivalent(a.Args[i], b.Args[i], bs) {
				return false
			}
		}
		return true
	case *Recursive:
		b, ok := b.(*Recursive)
		return ok && equivalent(a.Body, b.Body, bs.with(a.Binder.ID, b.Binder.ID))
	default:
		return false
	}
}

func sameMembers(as, bs []Type, binders binders) bool {
	if len(as) != len(bs) {
		return false
	}
	contains := func(ts []Type, t Type, flip bool) bool {
		for _, candidate := range ts {
			if !flip && equivalent(t, candidate, binders) {
				return true
			}
			if flip && equivalent(candidate, t, binders) {
				return true
			}
		}
		return false
	}
	for _, a := range as {
		if !contains(bs, a, false) {
			return false
		}
	}
	for _, b := range bs {
		if !contains(as, b, true) {
			return false
		}
	}
	return true
}

func CompareVars(a, b *Var) int { return cmp.Compare(a.ID, b.ID) }

// NewVarSet returns a set of vars ordered by id
func NewVarSet(vars ...*Var) *set.TreeSet[*Var] {
	return set.TreeSetFrom(vars, CompareVars)
}

// FreeVars collects the variables of ts, including row variables and
// excluding variables bound by a Recursive
func FreeVars(ts ...Type) *set.TreeSet[*Var] {
	free := NewVarSet()
	for _, t := range ts {
		collectFree(t, free, map[int]bool{})
	}
	return free
}

func collectFree(t Type, into *set.TreeSet[*Var], bound map[int]bool) {
	switch t := t.(type) {
	case *Var:
		if !bound[t.ID] {
			into.Insert(t)
		}
	case Primitive, Literal:
	case *Func:
		collectFree(t.Param, into, bound)
		collectFree(t.Result, into, bound)
	case *Record:
		for _, field := range t.All() {
			collectFree(field, into, bound)
		}
		if t.Row != nil {
			collectFree(t.Row, into, bound)
		}
	case *Tuple:
		for _, elem := range t.Elems {
			collectFree(elem, into, bound)
		}
	case *Union:
		for _, alt := range t.Alts {
			collectFree(alt, into, bound)
		}
	case *Intersection:
		for _, m := range t.Members {
			collectFree(m, into, bound)
		}
	case *Alias:
		for _, arg := range t.Args {
			collectFree(arg, into, bound)
		}
	case *Recursive:
		inner := make(map[int]bool, len(bound)+1)
		for k, v := range bound {
			inner[k] = v
		}
		inner[t.Binder.ID] = true
		collectFree(t.Body, into, inner)
	}
}

// Occurs reports whether v appears free in t
func Occurs(v *Var, t Type) bool {
	switch t := t.(type) {
	case *Var:
		return t.ID == v.ID
	case Primitive, Literal:
		return false
	case *Recursive:
		return t.Binder.ID != v.ID && Occurs(v, t.Body)
	case *Func:
		return Occurs(v, t.Param) || Occurs(v, t.Result)
	case *Record:
		for _, field := range t.All() {
			if Occurs(v, field) {
				return true
			}
		}
		return t.Row != nil && t.Row.ID == v.ID
	case *Tuple:
		return occursAny(v, t.Elems)
	case *Union:
		return occursAny(v, t.Alts)
	case *Intersection:
		return occursAny(v, t.Members)
	case *Alias:
		return occursAny(v, t.Args)
	default:
		return false
	}
}

func occursAny(v *Var, ts []Type) bool {
	for _, t := range ts {
		if Occurs(v, t) {
			return true
		}
	}
	return false
}

// IsGround reports whether t has no free variables
func IsGround(t Type) bool {
	return FreeVars(t).Empty()
}
