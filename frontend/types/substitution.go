package types

import (
	"strings"

	"github.com/benbjohnson/immutable"
)

type binding struct {
	v *Var
	t Type
}

// Subst is a persistent mapping from type variables to types. No variable
// is ever mapped to itself. The zero Subst is empty.
type Subst struct {
	bindings *immutable.SortedMap[int, binding]
}

func EmptySubst() Subst {
	return Subst{bindings: immutable.NewSortedMap[int, binding](nil)}
}

// Singleton maps v to t
func Singleton(v *Var, t Type) Subst {
	return EmptySubst().Bind(v, t)
}

func (s Subst) entries() *immutable.SortedMap[int, binding] {
	if s.bindings == nil {
		return immutable.NewSortedMap[int, binding](nil)
	}
	return s.bindings
}

func (s Subst) Len() int {
	if s.bindings == nil {
		return 0
	}
	return s.bindings.Len()
}

func (s Subst) IsEmpty() bool { return s.Len() == 0 }

func (s Subst) Lookup(v *Var) (Type, bool) {
	b, ok := s.entries().Get(v.ID)
	return b.t, ok
}

// Bind returns s extended with v ↦ t, replacing any previous binding
// of v. Binding a variable to itself removes it instead.
func (s Subst) Bind(v *Var, t Type) Subst {
	if other, ok := t.(*Var); ok && other.ID == v.ID {
		return Subst{bindings: s.entries().Delete(v.ID)}
	}
	return Subst{bindings: s.entries().Set(v.ID, binding{v: v, t: t})}
}

// Without returns s minus the bindings of vars
func (s Subst) Without(vars ...*Var) Subst {
	m := s.entries()
	for _, v := range vars {
		m = m.Delete(v.ID)
	}
	return Subst{bindings: m}
}

// Domain is the set of bound variables, ordered by id
func (s Subst) Domain() []*Var {
	vars := make([]*Var, 0, s.Len())
	itr := s.entries().Iterator()
	for !itr.Done() {
		_, b, _ := itr.Next()
		vars = append(vars, b.v)
	}
	return vars
}

// Range is the list of types variables are bound to, ordered by variable id
func (s Subst) Range() []Type {
	ts := make([]Type, 0, s.Len())
	itr := s.entries().Iterator()
	for !itr.Done() {
		_, b, _ := itr.Next()
		ts = append(ts, b.t)
	}
	return ts
}

// Compose returns the substitution that applies other, then s:
// s.Compose(other).Apply(t) equals s.Apply(other.Apply(t))
func (s Subst) Compose(other Subst) Subst {
	composed := EmptySubst()
	itr := other.entries().Iterator()
	for !itr.Done() {
		_, b, _ := itr.Next()
		composed = composed.Bind(b.v, s.Apply(b.t))
	}
	itr = s.entries().Iterator()
	for !itr.Done() {
		id, b, _ := itr.Next()
		if _, inOther := other.entries().Get(id); !inOther {
			composed = composed.Bind(b.v, b.t)
		}
	}
	return composed
}

// Apply replaces every bound variable of t by its binding, in one step.
// A row variable bound to a record has its fields spliced in, and a row
// variable bound to another variable is renamed; otherwise the row stays open.
func (s Subst) Apply(t Type) Type {
	if s.IsEmpty() {
		return t
	}
	switch t := t.(type) {
	case *Var:
		if bound, ok := s.Lookup(t); ok {
			return bound
		}
		return t
	case Primitive, Literal:
		return t
	case *Func:
		return NewFunc(s.Apply(t.Param), s.Apply(t.Result))
	case *Record:
		return s.applyRecord(t)
	case *Tuple:
		return NewTuple(s.applyAll(t.Elems)...)
	case *Union:
		return MustUnion(s.applyAll(t.Alts)...)
	case *Intersection:
		return MustIntersection(s.applyAll(t.Members)...)
	case *Alias:
		return NewAlias(t.Name, s.applyAll(t.Args)...)
	case *Recursive:
		return NewRecursive(t.Binder, s.Without(t.Binder).Apply(t.Body))
	default:
		return t
	}
}

func (s Subst) applyAll(ts []Type) []Type {
	applied := make([]Type, 0, len(ts))
	for _, t := range ts {
		applied = append(applied, s.Apply(t))
	}
	return applied
}

func (s Subst) applyRecord(r *Record) *Record {
	b := immutable.NewSortedMapBuilder[string, Type](nil)
	for name, field := range r.All() {
		b.Set(name, s.Apply(field))
	}
	if r.Row == nil {
		return RecordOf(b.Map(), nil)
	}
	bound, ok := s.Lookup(r.Row)
	if !ok {
		return RecordOf(b.Map(), r.Row)
	}
	switch bound := bound.(type) {
	case *Var:
		return RecordOf(b.Map(), bound)
	case *Record:
		for name, field := range bound.All() {
			if _, exists := b.Get(name); !exists {
				b.Set(name, field)
			}
		}
		return RecordOf(b.Map(), bound.Row)
	default:
		logger.Warn("row variable bound to a non-record type, leaving the row open", "row", r.Row, "bound", bound)
		return RecordOf(b.Map(), r.Row)
	}
}

func (s Subst) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	itr := s.entries().Iterator()
	first := true
	for !itr.Done() {
		_, b, _ := itr.Next()
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(b.v.String())
		sb.WriteString(" ↦ ")
		sb.WriteString(b.t.String())
	}
	sb.WriteString("}")
	return sb.String()
}
