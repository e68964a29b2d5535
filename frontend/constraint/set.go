package constraint

import (
	"iter"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

// Set is a persistent collection of constraints without duplicates.
// Iteration follows insertion order, which keeps solving deterministic.
// The zero Set is empty.
type Set struct {
	items *immutable.List[Constraint]
	seen  immutable.Set[uint64]
}

var hashHasher = immutable.NewHasher(uint64(0))

func NewSet(cs ...Constraint) Set {
	s := Set{items: immutable.NewList[Constraint](), seen: immutable.NewSet[uint64](hashHasher)}
	for _, c := range cs {
		s = s.Add(c)
	}
	return s
}

func (s Set) init() Set {
	if s.items == nil {
		return NewSet()
	}
	return s
}

// Add returns s with c, or s itself when an equal constraint is present
func (s Set) Add(c Constraint) Set {
	s = s.init()
	h := c.Hash()
	if s.seen.Has(h) {
		return s
	}
	return Set{items: s.items.Append(c), seen: s.seen.Add(h)}
}

func (s Set) Contains(c Constraint) bool {
	return s.items != nil && s.seen.Has(c.Hash())
}

func (s Set) Len() int {
	if s.items == nil {
		return 0
	}
	return s.items.Len()
}

func (s Set) IsEmpty() bool { return s.Len() == 0 }

func (s Set) All() iter.Seq[Constraint] {
	return func(yield func(Constraint) bool) {
		if s.items == nil {
			return
		}
		itr := s.items.Iterator()
		for !itr.Done() {
			_, c := itr.Next()
			if !yield(c) {
				return
			}
		}
	}
}

func (s Set) Slice() []Constraint {
	return slices.Collect(s.All())
}

func (s Set) Union(other Set) Set {
	for c := range other.All() {
		s = s.Add(c)
	}
	return s.init()
}

func (s Set) Intersect(other Set) Set {
	return s.Filter(other.Contains)
}

func (s Set) Difference(other Set) Set {
	return s.Filter(func(c Constraint) bool { return !other.Contains(c) })
}

func (s Set) Filter(keep func(Constraint) bool) Set {
	filtered := NewSet()
	for c := range s.All() {
		if keep(c) {
			filtered = filtered.Add(c)
		}
	}
	return filtered
}

func (s Set) ByKind(kinds ...Kind) Set {
	return s.Filter(func(c Constraint) bool { return slices.Contains(kinds, c.Kind()) })
}

func (s Set) ByOrigin(origins ...Origin) Set {
	return s.Filter(func(c Constraint) bool { return slices.Contains(origins, c.Origin()) })
}

func (s Set) ByPriority(priority int) Set {
	return s.Filter(func(c Constraint) bool { return c.Priority() == priority })
}

func (s Set) Apply(subst types.Subst) Set {
	if subst.IsEmpty() {
		return s.init()
	}
	applied := NewSet()
	for c := range s.All() {
		applied = applied.Add(c.Apply(subst))
	}
	return applied
}

func (s Set) FreeVars() *set.TreeSet[*types.Var] {
	free := types.NewVarSet()
	for c := range s.All() {
		for v := range c.FreeVars().Items() {
			free.Insert(v)
		}
	}
	return free
}

// Sorted returns the constraints by decreasing priority, keeping
// insertion order among constraints of the same priority
func (s Set) Sorted() []Constraint {
	sorted := s.Slice()
	slices.SortStableFunc(sorted, func(a, b Constraint) int {
		return b.Priority() - a.Priority()
	})
	return sorted
}

// IsTriviallyTrue reports whether c holds regardless of any substitution
func IsTriviallyTrue(c Constraint) bool {
	switch c := c.(type) {
	case *Equal:
		return types.Equivalent(c.Left, c.Right)
	case *Subtype:
		return types.Equivalent(c.Sub, c.Super)
	case *Instance:
		return c.Class == Printable
	case *RecordShape:
		r, ok := c.Type.(*types.Record)
		return ok && r.IsOpen()
	default:
		return false
	}
}

// Simplify discharges trivially true constraints
func (s Set) Simplify() Set {
	return s.Filter(func(c Constraint) bool { return !IsTriviallyTrue(c) })
}

// Propagate adds the equalities implied by transitivity (a ~ b and b ~ c
// give a ~ c) until no new equality appears
func (s Set) Propagate() Set {
	s = s.init()
	for {
		equalities := s.ByKind(KindEquality).Slice()
		added := false
		for i, first := range equalities {
			for _, second := range equalities[i+1:] {
				for _, derived := range transitive(first.(*Equal), second.(*Equal)) {
					if !s.Contains(derived) && !IsTriviallyTrue(derived) {
						s = s.Add(derived)
						added = true
					}
				}
			}
		}
		if !added {
			return s
		}
	}
}

func transitive(first, second *Equal) []*Equal {
	var derived []*Equal
	link := func(sharedA, otherA, sharedB, otherB types.Type) {
		if types.Equivalent(sharedA, sharedB) {
			derived = append(derived, &Equal{meta: first.meta, Left: otherA, Right: otherB})
		}
	}
	link(first.Left, first.Right, second.Left, second.Right)
	link(first.Left, first.Right, second.Right, second.Left)
	link(first.Right, first.Left, second.Left, second.Right)
	link(first.Right, first.Left, second.Right, second.Left)
	return derived
}

// Consistent looks for an equality between two types whose outermost
// shapes can never unify, such as Int ~ String or a function and a record.
// It does not solve: a consistent set may still be unsatisfiable.
func (s Set) Consistent() ilerr.IleError {
	for c := range s.Propagate().ByKind(KindEquality).All() {
		eq := c.(*Equal)
		if Clash(eq.Left, eq.Right) {
			return ilerr.New(ilerr.NewTypeMismatch{
				Positioner: eq.Range,
				Expected:   eq.Left.String(),
				Found:      eq.Right.String(),
				Reason:     "incompatible shapes",
			})
		}
	}
	return nil
}

// Clash reports whether a and b have incompatible ground heads
func Clash(a, b types.Type) bool {
	switch a.(type) {
	case *types.Var, *types.Alias, *types.Recursive, *types.Union, *types.Intersection:
		return false
	}
	switch b.(type) {
	case *types.Var, *types.Alias, *types.Recursive, *types.Union, *types.Intersection:
		return false
	}
	switch a := a.(type) {
	case types.Primitive:
		switch b := b.(type) {
		case types.Primitive:
			return a.Name != b.Name
		case types.Literal:
			return a != types.String
		default:
			return true
		}
	case types.Literal:
		switch b := b.(type) {
		case types.Literal:
			return a.Value != b.Value
		case types.Primitive:
			return b != types.String
		default:
			return true
		}
	case *types.Func:
		_, ok := b.(*types.Func)
		return !ok
	case *types.Record:
		_, ok := b.(*types.Record)
		return !ok
	case *types.Tuple:
		bt, ok := b.(*types.Tuple)
		return !ok || len(a.Elems) != len(bt.Elems)
	default:
		return false
	}
}

func (s Set) String() string {
	parts := make([]string, 0, s.Len())
	for c := range s.All() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
