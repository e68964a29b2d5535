package alias

import (
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

// maxExpansionDepth bounds nested expansions of aliases whose recursive
// references change their arguments, such as Nest[a] = {next: Nest[List[a]]}
const maxExpansionDepth = 64

// Normalize expands every alias reference in t. A reference met again
// while it is being expanded becomes the binder of a μ type, so
// List[Int] normalises to μt.{head: Int, tail: t}.
// References to unknown aliases, or with the wrong number of arguments, are kept.
func (r *Registry) Normalize(t types.Type) types.Type {
	n := normaliser{registry: r, inProgress: make(map[uint64]*types.Var)}
	return n.normalize(t, 0)
}

type normaliser struct {
	registry   *Registry
	inProgress map[uint64]*types.Var
}

func (n *normaliser) normalize(t types.Type, depth int) types.Type {
	switch t := t.(type) {
	case *types.Alias:
		return n.alias(t, depth)
	case *types.Var, types.Primitive, types.Literal:
		return t
	case *types.Func:
		return types.NewFunc(n.normalize(t.Param, depth), n.normalize(t.Result, depth))
	case *types.Record:
		fields := make(map[string]types.Type, t.Len())
		for name, field := range t.All() {
			fields[name] = n.normalize(field, depth)
		}
		return types.NewRecord(fields, t.Row)
	case *types.Tuple:
		return types.NewTuple(n.all(t.Elems, depth)...)
	case *types.Union:
		return types.MustUnion(n.all(t.Alts, depth)...)
	case *types.Intersection:
		return types.MustIntersection(n.all(t.Members, depth)...)
	case *types.Recursive:
		return types.NewRecursive(t.Binder, n.normalize(t.Body, depth))
	default:
		return t
	}
}

func (n *normaliser) all(ts []types.Type, depth int) []types.Type {
	normalised := make([]types.Type, 0, len(ts))
	for _, t := range ts {
		normalised = append(normalised, n.normalize(t, depth))
	}
	return normalised
}

func (n *normaliser) alias(ref *types.Alias, depth int) types.Type {
	key := ref.Hash()
	if binder, ok := n.inProgress[key]; ok {
		return binder
	}
	if cached, ok := n.registry.normalised[key]; ok {
		return cached
	}
	def, ok := n.registry.defs.Get(ref.Name)
	if !ok {
		return types.NewAlias(ref.Name, n.all(ref.Args, depth)...)
	}
	if depth >= maxExpansionDepth {
		logger.Warn("alias expansion too deep, leaving reference unexpanded", "alias", ref, "depth", depth)
		return ref
	}
	expanded, ok := def.Expand(ref.Args)
	if !ok {
		return ref
	}

	binder := n.registry.fresher.Fresh(0)
	n.inProgress[key] = binder
	body := n.normalize(expanded, depth+1)
	delete(n.inProgress, key)

	var result types.Type = body
	if types.Occurs(binder, body) {
		result = types.NewRecursive(binder, body)
	}
	if !n.capturesOuterBinder(result) {
		n.registry.normalised[key] = result
	}
	return result
}

// capturesOuterBinder reports whether t mentions the binder of an
// expansion still in progress, in which case t is only meaningful inside it
func (n *normaliser) capturesOuterBinder(t types.Type) bool {
	if len(n.inProgress) == 0 {
		return false
	}
	binders := set.New[int](len(n.inProgress))
	for _, b := range n.inProgress {
		binders.Insert(b.ID)
	}
	for v := range types.FreeVars(t).Items() {
		if binders.Contains(v.ID) {
			return true
		}
	}
	return false
}
