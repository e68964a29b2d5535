package solver

import (
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
)

// subtype finds a substitution under which sub <: super. Records are
// related by width, functions are contravariant in their parameter and
// literals are subtypes of String. Pairs with no structural rule left are
// unified.
func (u *unifier) subtype(sub, super types.Type) (types.Subst, ilerr.IleError) {
	if err := u.enter(sub, super); err != nil {
		return types.Subst{}, err
	}
	defer u.leave()
	logger.Debug("subtype", "sub", sub, "super", super, "depth", u.depth)

	if types.Equivalent(sub, super) {
		return types.EmptySubst(), nil
	}
	_, subIsVar := sub.(*types.Var)
	_, superIsVar := super.(*types.Var)
	if subIsVar || superIsVar {
		return u.unify(sub, super)
	}

	if subst, handled, err := u.subtypeIndirect(sub, super); handled {
		return subst, err
	}

	if superU, ok := super.(*types.Union); ok {
		if subU, ok := sub.(*types.Union); ok {
			return u.subtypeAll(subU.Alts, super)
		}
		for _, alt := range superU.Alts {
			if subst, err := u.tentative().subtype(sub, alt); err == nil {
				return subst, nil
			}
		}
		return types.Subst{}, u.subtypeFailure(sub, super, "no alternative of the union accepts it")
	}
	if subU, ok := sub.(*types.Union); ok {
		return u.subtypeAll(subU.Alts, super)
	}
	if subI, ok := sub.(*types.Intersection); ok {
		for _, member := range subI.Members {
			if subst, err := u.tentative().subtype(member, super); err == nil {
				return subst, nil
			}
		}
		return types.Subst{}, u.subtypeFailure(sub, super, "no member of the intersection is a subtype")
	}
	if superI, ok := super.(*types.Intersection); ok {
		subst := types.EmptySubst()
		for _, member := range superI.Members {
			next, err := u.subtype(subst.Apply(sub), subst.Apply(member))
			if err != nil {
				return types.Subst{}, err
			}
			subst = next.Compose(subst)
		}
		return subst, nil
	}

	switch sub := sub.(type) {
	case *types.Record:
		if super, ok := super.(*types.Record); ok {
			return u.subtypeRecords(sub, super)
		}
	case *types.Func:
		if super, ok := super.(*types.Func); ok {
			params, err := u.subtype(super.Param, sub.Param)
			if err != nil {
				return types.Subst{}, err
			}
			results, err := u.subtype(params.Apply(sub.Result), params.Apply(super.Result))
			if err != nil {
				return types.Subst{}, err
			}
			return results.Compose(params), nil
		}
	case *types.Tuple:
		if super, ok := super.(*types.Tuple); ok && len(sub.Elems) == len(super.Elems) {
			subst := types.EmptySubst()
			for i := range sub.Elems {
				next, err := u.subtype(subst.Apply(sub.Elems[i]), subst.Apply(super.Elems[i]))
				if err != nil {
					return types.Subst{}, err
				}
				subst = next.Compose(subst)
			}
			return subst, nil
		}
	case types.Literal:
		if super == types.Type(types.String) {
			return types.EmptySubst(), nil
		}
	}

	subst, err := u.unify(sub, super)
	if err != nil {
		return types.Subst{}, u.subtypeFailure(sub, super, err.Error())
	}
	return subst, nil
}

func (u *unifier) subtypeIndirect(sub, super types.Type) (types.Subst, bool, ilerr.IleError) {
	switch s := sub.(type) {
	case *types.Alias:
		if u.assume(sub, super) {
			return types.EmptySubst(), true, nil
		}
		expanded, err := u.expand(s)
		if err != nil {
			return types.Subst{}, true, err
		}
		subst, err := u.subtype(expanded, super)
		return subst, true, err
	case *types.Recursive:
		if u.assume(sub, super) {
			return types.EmptySubst(), true, nil
		}
		subst, err := u.subtype(s.Unfold(), super)
		return subst, true, err
	}
	switch s := super.(type) {
	case *types.Alias:
		if u.assume(sub, super) {
			return types.EmptySubst(), true, nil
		}
		expanded, err := u.expand(s)
		if err != nil {
			return types.Subst{}, true, err
		}
		subst, err := u.subtype(sub, expanded)
		return subst, true, err
	case *types.Recursive:
		if u.assume(sub, super) {
			return types.EmptySubst(), true, nil
		}
		subst, err := u.subtype(sub, s.Unfold())
		return subst, true, err
	}
	return types.Subst{}, false, nil
}

// subtypeAll requires every one of alts to be a subtype of super
func (u *unifier) subtypeAll(alts []types.Type, super types.Type) (types.Subst, ilerr.IleError) {
	subst := types.EmptySubst()
	for _, alt := range alts {
		next, err := u.subtype(subst.Apply(alt), subst.Apply(super))
		if err != nil {
			return types.Subst{}, err
		}
		subst = next.Compose(subst)
	}
	return subst, nil
}

func (u *unifier) subtypeFailure(sub, super types.Type, reason string) ilerr.IleError {
	return ilerr.New(ilerr.NewSubtypeFailure{
		Positioner: u.at,
		Sub:        sub.String(),
		Super:      super.String(),
		Reason:     reason,
	})
}
