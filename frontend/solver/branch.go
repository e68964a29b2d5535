package solver

import (
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/util"
)

// branch gives the result of an if or a match its type. When the use of
// the result already decided it, every branch must be a subtype of it.
// Otherwise the result is the join of the branches.
func (u *unifier) branch(c *constraint.Branch) (types.Subst, ilerr.IleError) {
	if len(c.Branches) == 0 {
		return types.EmptySubst(), nil
	}
	subst := types.EmptySubst()
	result, ok := c.Result.(*types.Var)
	if !ok {
		for _, b := range c.Branches {
			expected, found := subst.Apply(c.Result), subst.Apply(b)
			next, err := u.subtype(found, expected)
			if err != nil {
				logger.Debug("branch does not fit its use", "expected", expected, "found", found, "error", err)
				return types.Subst{}, u.mismatch(expected, found, "a branch does not fit how the result is used")
			}
			subst = next.Compose(subst)
		}
		return subst, nil
	}

	joined := c.Branches[0]
	for _, b := range c.Branches[1:] {
		var next types.Subst
		var err ilerr.IleError
		joined, next, err = u.joinBranches(subst.Apply(joined), subst.Apply(b))
		if err != nil {
			return types.Subst{}, err
		}
		subst = next.Compose(subst)
	}
	joined = subst.Apply(joined)
	logger.Debug("joined branches", "result", result, "joined", joined)
	bound, err := u.unify(subst.Apply(result), joined)
	if err != nil {
		return types.Subst{}, err
	}
	return bound.Compose(subst), nil
}

// joinBranches is the type a value of either a or b has. Unlike the join
// of case patterns it fails rather than form a union, except for records
// told apart by a literal tag.
func (u *unifier) joinBranches(a, b types.Type) (types.Type, types.Subst, ilerr.IleError) {
	_, aIsVar := a.(*types.Var)
	_, bIsVar := b.(*types.Var)
	if !aIsVar && !bIsVar {
		switch a := a.(type) {
		case *types.Record:
			if rb, ok := b.(*types.Record); ok && canFormDiscriminatedUnion(a, rb) {
				return types.MustUnion(a, b), types.EmptySubst(), nil
			}
		case *types.Union:
			return u.joinIntoUnion(a, b)
		case *types.Tuple:
			if tb, ok := b.(*types.Tuple); ok && len(a.Elems) == len(tb.Elems) {
				subst := types.EmptySubst()
				elems := make([]types.Type, len(a.Elems))
				for i := range a.Elems {
					var next types.Subst
					var err ilerr.IleError
					elems[i], next, err = u.joinBranches(subst.Apply(a.Elems[i]), subst.Apply(tb.Elems[i]))
					if err != nil {
						return nil, types.Subst{}, err
					}
					subst = next.Compose(subst)
				}
				return types.NewTuple(util.MapSlice(elems, subst.Apply)...), subst, nil
			}
		case types.Literal:
			if lb, ok := b.(types.Literal); ok && a.Value != lb.Value {
				return types.String, types.EmptySubst(), nil
			}
		}
	}
	subst, err := u.unify(a, b)
	if err != nil {
		return nil, types.Subst{}, err
	}
	return subst.Apply(widest(a, b)), subst, nil
}

// joinIntoUnion adds b to a union of branches: into the alternative it
// unifies with, or as a new alternative if its tag tells it apart from
// all of them
func (u *unifier) joinIntoUnion(union *types.Union, b types.Type) (types.Type, types.Subst, ilerr.IleError) {
	for _, alt := range union.Alts {
		if subst, err := u.tentative().unify(alt, b); err == nil {
			return subst.Apply(union), subst, nil
		}
	}
	rb, ok := b.(*types.Record)
	distinct := ok && util.AllOf(union.Alts, func(alt types.Type) bool {
		ra, ok := alt.(*types.Record)
		return ok && canFormDiscriminatedUnion(ra, rb)
	})
	if !distinct {
		return nil, types.Subst{}, u.mismatch(union, b, "branches have different types")
	}
	return types.MustUnion(append(union.Alts[:len(union.Alts):len(union.Alts)], b)...), types.EmptySubst(), nil
}
