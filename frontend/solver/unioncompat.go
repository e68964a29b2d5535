package solver

import (
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/util"
)

// unionCompat relates a match scrutinee to the types of its case patterns.
// A scrutinee that is still a variable becomes the join of the patterns,
// where literal tags that differ form a union instead of failing.
// A union scrutinee must have an alternative for every pattern, and any
// other scrutinee must unify with each of them.
func (u *unifier) unionCompat(c *constraint.UnionCompat) (types.Subst, ilerr.IleError) {
	switch scrutinee := c.Scrutinee.(type) {
	case *types.Var:
		return u.joinInto(scrutinee, c.Patterns)
	case *types.Union:
		subst := types.EmptySubst()
		for _, p := range c.Patterns {
			next, err := u.matchAlternative(subst.Apply(scrutinee), subst.Apply(p))
			if err != nil {
				return types.Subst{}, err
			}
			subst = next.Compose(subst)
		}
		return subst, nil
	default:
		subst := types.EmptySubst()
		for _, p := range c.Patterns {
			next, err := u.unify(subst.Apply(p), subst.Apply(scrutinee))
			if err != nil {
				return types.Subst{}, err
			}
			subst = next.Compose(subst)
		}
		return subst, nil
	}
}

func (u *unifier) joinInto(scrutinee *types.Var, patterns []types.Type) (types.Subst, ilerr.IleError) {
	if len(patterns) == 0 {
		return types.EmptySubst(), nil
	}
	subst := types.EmptySubst()
	joined := patterns[0]
	for _, p := range patterns[1:] {
		var next types.Subst
		joined, next = u.join(subst.Apply(joined), subst.Apply(p))
		subst = next.Compose(subst)
	}
	joined = subst.Apply(joined)
	logger.Debug("joined case patterns", "scrutinee", scrutinee, "joined", joined)
	bound, err := u.bindVar(scrutinee, joined)
	if err != nil {
		return types.Subst{}, err
	}
	return bound.Compose(subst), nil
}

// join is the smallest type both a and b fit in, together with whatever
// binding was needed to find it. It never fails: types that cannot be
// reconciled become a union.
func (u *unifier) join(a, b types.Type) (types.Type, types.Subst) {
	if ra, ok := a.(*types.Record); ok {
		if rb, ok := b.(*types.Record); ok && canFormDiscriminatedUnion(ra, rb) {
			return types.MustUnion(a, b), types.EmptySubst()
		}
	}
	if ta, ok := a.(*types.Tuple); ok {
		if tb, ok := b.(*types.Tuple); ok && len(ta.Elems) == len(tb.Elems) {
			subst := types.EmptySubst()
			elems := make([]types.Type, len(ta.Elems))
			for i := range ta.Elems {
				var next types.Subst
				elems[i], next = u.join(subst.Apply(ta.Elems[i]), subst.Apply(tb.Elems[i]))
				subst = next.Compose(subst)
			}
			return types.NewTuple(util.MapSlice(elems, subst.Apply)...), subst
		}
	}
	if la, ok := a.(types.Literal); ok {
		if lb, ok := b.(types.Literal); ok && la.Value != lb.Value {
			return types.MustUnion(a, b), types.EmptySubst()
		}
	}
	if union, ok := a.(*types.Union); ok {
		for _, alt := range union.Alts {
			if subst, err := u.tentative().unify(alt, b); err == nil {
				return subst.Apply(a), subst
			}
		}
		return types.MustUnion(append(union.Alts[:len(union.Alts):len(union.Alts)], b)...), types.EmptySubst()
	}
	if subst, err := u.tentative().unify(a, b); err == nil {
		return subst.Apply(widest(a, b)), subst
	}
	return types.MustUnion(a, b), types.EmptySubst()
}

// widest prefers String over a literal when both unified through widening
func widest(a, b types.Type) types.Type {
	if _, ok := a.(types.Literal); ok {
		return b
	}
	return a
}

// matchAlternative finds the alternative of scrutinee a pattern of type p
// can match
func (u *unifier) matchAlternative(scrutinee types.Type, p types.Type) (types.Subst, ilerr.IleError) {
	if v, ok := p.(*types.Var); ok {
		return u.bindVar(v, scrutinee)
	}
	union, ok := scrutinee.(*types.Union)
	if !ok {
		return u.unify(p, scrutinee)
	}
	for _, alt := range union.Alts {
		if subst, err := u.tentative().unify(p, alt); err == nil {
			return subst, nil
		}
	}
	return types.Subst{}, ilerr.New(ilerr.NewUnionFailure{
		Positioner:   u.at,
		Type:         p.String(),
		Alternatives: util.MapSlice(union.Alts, types.Type.String),
	})
}

// canFormDiscriminatedUnion reports whether a and b share a field holding
// two different literal strings, which tells them apart.
// Such pairs are joined into a union without unifying the rest of their
// fields, so mismatched payloads under distinct tags are not reported.
func canFormDiscriminatedUnion(a, b *types.Record) bool {
	for name, fa := range a.All() {
		fb, ok := b.Field(name)
		if !ok {
			continue
		}
		la, okA := fa.(types.Literal)
		lb, okB := fb.(types.Literal)
		if okA && okB && la.Value != lb.Value {
			return true
		}
	}
	return false
}
