package solver

import (
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/util"
	"github.com/hashicorp/go-set/v3"
)

// typePair holds a pair of types being related
type typePair struct {
	lhs types.Type
	rhs types.Type
}

func (p *typePair) Hash() uint64 {
	return 31*p.lhs.Hash() ^ p.rhs.Hash()
}

// unifier holds the state of one constraint being discharged
type unifier struct {
	solver *Solver
	at     ast.Positioner
	// assumed holds the pairs of recursive or alias types currently being
	// related; meeting one again means it holds co-inductively
	assumed *set.HashSet[*typePair, uint64]
	depth   int
}

func (s *Solver) newUnifier(at ast.Positioner) *unifier {
	return &unifier{
		solver:  s,
		at:      at,
		assumed: set.NewHashSet[*typePair, uint64](0),
	}
}

// tentative returns a unifier for an attempt which may be abandoned:
// the assumptions it makes do not leak back into u
func (u *unifier) tentative() *unifier {
	return &unifier{solver: u.solver, at: u.at, assumed: u.assumed.Copy(), depth: u.depth}
}

func (u *unifier) enter(a, b types.Type) ilerr.IleError {
	u.depth++
	if u.depth > u.solver.config.MaxDepth {
		return ilerr.Internalf(u.at, "exceeded max depth limit relating %s and %s", a, b)
	}
	return nil
}

func (u *unifier) leave() { u.depth-- }

// assume records that a and b are being related, and reports whether
// they already were
func (u *unifier) assume(a, b types.Type) bool {
	pair := &typePair{lhs: a, rhs: b}
	if u.assumed.Contains(pair) {
		return true
	}
	u.assumed.Insert(pair)
	return false
}

// mismatch reports that found was given where expected was. Unification
// treats its right operand as the expected one.
func (u *unifier) mismatch(expected, found types.Type, reason string) ilerr.IleError {
	return ilerr.New(ilerr.NewTypeMismatch{
		Positioner: u.at,
		Expected:   expected.String(),
		Found:      found.String(),
		Reason:     reason,
	})
}

// unify finds the most general substitution making a and b equal
func (u *unifier) unify(a, b types.Type) (types.Subst, ilerr.IleError) {
	if err := u.enter(a, b); err != nil {
		return types.Subst{}, err
	}
	defer u.leave()
	logger.Debug("unify", "left", a, "right", b, "depth", u.depth)

	if types.Equivalent(a, b) {
		return types.EmptySubst(), nil
	}
	if v, ok := a.(*types.Var); ok {
		return u.bindVar(v, b)
	}
	if v, ok := b.(*types.Var); ok {
		return u.bindVar(v, a)
	}

	if subst, handled, err := u.unifyIndirect(a, b); handled {
		return subst, err
	}

	switch b := b.(type) {
	case *types.Union:
		if a, ok := a.(*types.Union); ok {
			return u.unifyUnions(a, b)
		}
		return u.absorb(a, b)
	case *types.Intersection:
		return u.unifyWithAll(a, b)
	}
	switch a := a.(type) {
	case *types.Union:
		return u.absorb(b, a)
	case *types.Intersection:
		return u.unifyWithAll(b, a)
	}

	switch a := a.(type) {
	case types.Primitive:
		if lit, ok := b.(types.Literal); ok && a == types.String {
			logger.Debug("widening literal", "literal", lit)
			return types.EmptySubst(), nil
		}
	case types.Literal:
		if b, ok := b.(types.Primitive); ok && b == types.String {
			logger.Debug("widening literal", "literal", a)
			return types.EmptySubst(), nil
		}
	case *types.Func:
		if b, ok := b.(*types.Func); ok {
			return u.unifyPairs([]types.Type{a.Param, a.Result}, []types.Type{b.Param, b.Result})
		}
	case *types.Tuple:
		if b, ok := b.(*types.Tuple); ok {
			if len(a.Elems) != len(b.Elems) {
				return types.Subst{}, u.mismatch(b, a, "tuples of different sizes")
			}
			return u.unifyPairs(a.Elems, b.Elems)
		}
	case *types.Record:
		if b, ok := b.(*types.Record); ok {
			return u.unifyRecords(a, b)
		}
	}
	return types.Subst{}, u.mismatch(b, a, "")
}

// unifyIndirect handles aliases, expanded one level at a time, and
// recursive types, unfolded once. It reports false when neither a nor
// b is one of those.
func (u *unifier) unifyIndirect(a, b types.Type) (types.Subst, bool, ilerr.IleError) {
	aliasA, aIsAlias := a.(*types.Alias)
	aliasB, bIsAlias := b.(*types.Alias)
	muA, aIsMu := a.(*types.Recursive)
	muB, bIsMu := b.(*types.Recursive)
	if !aIsAlias && !bIsAlias && !aIsMu && !bIsMu {
		return types.Subst{}, false, nil
	}
	if u.assume(a, b) {
		return types.EmptySubst(), true, nil
	}
	if aIsAlias && bIsAlias && aliasA.Name == aliasB.Name && len(aliasA.Args) == len(aliasB.Args) {
		if subst, err := u.tentative().unifyPairs(aliasA.Args, aliasB.Args); err == nil {
			return subst, true, nil
		}
	}
	switch {
	case aIsAlias:
		expanded, err := u.expand(aliasA)
		if err != nil {
			return types.Subst{}, true, err
		}
		subst, err := u.unify(expanded, b)
		return subst, true, err
	case bIsAlias:
		expanded, err := u.expand(aliasB)
		if err != nil {
			return types.Subst{}, true, err
		}
		subst, err := u.unify(a, expanded)
		return subst, true, err
	case aIsMu:
		subst, err := u.unify(muA.Unfold(), b)
		return subst, true, err
	default:
		subst, err := u.unify(a, muB.Unfold())
		return subst, true, err
	}
}

func (u *unifier) expand(ref *types.Alias) (types.Type, ilerr.IleError) {
	def, ok := u.solver.registry.Lookup(ref.Name)
	if !ok {
		return nil, ilerr.New(ilerr.NewUndefinedConstructor{Positioner: u.at, Name: ref.Name})
	}
	expanded, ok := def.Expand(ref.Args)
	if !ok {
		return nil, ilerr.New(ilerr.NewInvalidAnnotation{
			Positioner: u.at,
			Annotation: ref.String(),
			Reason:     "wrong number of type arguments",
		})
	}
	return expanded, nil
}

func (u *unifier) bindVar(v *types.Var, t types.Type) (types.Subst, ilerr.IleError) {
	if other, ok := t.(*types.Var); ok && other.ID == v.ID {
		return types.EmptySubst(), nil
	}
	if types.Occurs(v, t) {
		return types.Subst{}, ilerr.New(ilerr.NewOccursCheck{Positioner: u.at, Var: v.String(), Type: t.String()})
	}
	return types.Singleton(v, t), nil
}

// unifyPairs unifies as[i] with bs[i] in order, threading the substitution
func (u *unifier) unifyPairs(as, bs []types.Type) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	for i := range as {
		next, err := u.unify(subst.Apply(as[i]), subst.Apply(bs[i]))
		if err != nil {
			return types.Subst{}, err
		}
		subst = next.Compose(subst)
	}
	return subst, nil
}

// absorb unifies t with the first alternative of union it can be unified with
func (u *unifier) absorb(t types.Type, union *types.Union) (types.Subst, ilerr.IleError) {
	for _, alt := range union.Alts {
		if subst, err := u.tentative().unify(t, alt); err == nil {
			return subst, nil
		}
	}
	return types.Subst{}, ilerr.New(ilerr.NewUnionFailure{
		Positioner:   u.at,
		Type:         t.String(),
		Alternatives: util.MapSlice(union.Alts, types.Type.String),
	})
}

// unifyUnions requires every alternative on one side to unify with some
// alternative on the other
func (u *unifier) unifyUnions(a, b *types.Union) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	for _, side := range [][2]*types.Union{{a, b}, {b, a}} {
		for _, alt := range side[0].Alts {
			var absorbed types.Subst
			var err ilerr.IleError
			if target, ok := subst.Apply(side[1]).(*types.Union); ok {
				absorbed, err = u.absorb(subst.Apply(alt), target)
			} else {
				absorbed, err = u.unify(subst.Apply(alt), subst.Apply(side[1]))
			}
			if err != nil {
				return types.Subst{}, u.mismatch(a, b, "union alternatives differ")
			}
			subst = absorbed.Compose(subst)
		}
	}
	return subst, nil
}

// unifyWithAll unifies t with every member of an intersection
func (u *unifier) unifyWithAll(t types.Type, inter *types.Intersection) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	for _, member := range inter.Members {
		next, err := u.unify(subst.Apply(t), subst.Apply(member))
		if err != nil {
			return types.Subst{}, ilerr.New(ilerr.NewIntersectionFailure{
				Positioner: u.at,
				Type:       t.String(),
				Members:    util.MapSlice(inter.Members, types.Type.String),
			})
		}
		subst = next.Compose(subst)
	}
	return subst, nil
}
