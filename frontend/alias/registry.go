// Package alias keeps the named, parameterised type aliases of a program
// and expands references to them.
package alias

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/internal/log"
	"github.com/cottand/shapecheck/util"
)

var logger = log.DefaultLogger.With("section", "alias")

// Definition is type Name[Params...] = Body
type Definition struct {
	ast.Range
	Name   string
	Params []*types.Var
	Body   types.Type
}

// Expand substitutes args for the parameters of d, positionally.
// It reports false when the number of args does not match.
func (d Definition) Expand(args []types.Type) (types.Type, bool) {
	if len(args) != len(d.Params) {
		return nil, false
	}
	s := types.EmptySubst()
	for i, param := range d.Params {
		s = s.Bind(param, args[i])
	}
	return s.Apply(d.Body), true
}

// Registry is owned by one checking session and is not safe for concurrent use.
type Registry struct {
	defs    *immutable.SortedMap[string, Definition]
	fresher *types.Fresher
	// normalised is keyed by the Hash of the unexpanded alias reference,
	// and is emptied whenever a new alias is defined
	normalised map[uint64]types.Type
}

func NewRegistry(fresher *types.Fresher) *Registry {
	return &Registry{
		defs:       immutable.NewSortedMap[string, Definition](nil),
		fresher:    fresher,
		normalised: make(map[uint64]types.Type),
	}
}

func (r *Registry) Lookup(name string) (Definition, bool) {
	return r.defs.Get(name)
}

// Names returns the defined aliases in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, r.defs.Len())
	itr := r.defs.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	return names
}

// Define registers def, rejecting redefinitions and cycles that do
// not pass through a record, function, tuple or union.
func (r *Registry) Define(def Definition) ilerr.IleError {
	if _, isPrimitive := types.PrimitiveNamed(def.Name); isPrimitive {
		return ilerr.New(ilerr.NewDuplicateDefinition{Positioner: def.Range, Name: def.Name})
	}
	if _, exists := r.defs.Get(def.Name); exists {
		return ilerr.New(ilerr.NewDuplicateDefinition{Positioner: def.Range, Name: def.Name})
	}
	if err := r.checkCycle(def); err != nil {
		return err
	}
	r.defs = r.defs.Set(def.Name, def)
	clear(r.normalised)
	logger.Debug("defined alias", "name", def.Name, "params", len(def.Params), "body", def.Body)
	return nil
}

// Expand replaces a reference to an alias by its definition, one level deep
func (r *Registry) Expand(ref *types.Alias) (types.Type, bool) {
	def, ok := r.defs.Get(ref.Name)
	if !ok {
		return nil, false
	}
	return def.Expand(ref.Args)
}

func (r *Registry) checkCycle(def Definition) ilerr.IleError {
	lookup := func(name string) (Definition, bool) {
		if name == def.Name {
			return def, true
		}
		return r.defs.Get(name)
	}
	path := &util.Stack[string]{}
	path.Push(def.Name)
	traversed := immutable.NewSet[string](immutable.NewHasher("")).Add(def.Name)
	return checkCycle(def.Body, lookup, traversed, path, def.Range)
}

// checkCycle follows alias references which are not guarded by a
// structural type constructor, and fails if it reaches an alias twice
func checkCycle(
	t types.Type,
	lookup func(string) (Definition, bool),
	traversedNames immutable.Set[string],
	path *util.Stack[string],
	at ast.Range,
) ilerr.IleError {
	switch t := t.(type) {
	case *types.Alias:
		if traversedNames.Has(t.Name) {
			cycle := append(path.From(t.Name), t.Name)
			logger.Debug("illegal alias cycle", "cycle", cycle)
			return ilerr.New(ilerr.NewCircularTypeDefinition{Positioner: at, Name: path.Items()[0], Cycle: cycle})
		}
		def, ok := lookup(t.Name)
		if !ok {
			// forward reference, checked when it gets defined
			return nil
		}
		expanded, ok := def.Expand(t.Args)
		if !ok {
			return nil
		}
		path.Push(t.Name)
		defer path.Pop()
		return checkCycle(expanded, lookup, traversedNames.Add(t.Name), path, at)
	case *types.Intersection:
		for _, m := range t.Members {
			if err := checkCycle(m, lookup, traversedNames, path, at); err != nil {
				return err
			}
		}
		return nil
	case *types.Recursive:
		return checkCycle(t.Body, lookup, traversedNames, path, at)
	case *types.Record, *types.Func, *types.Tuple, *types.Union:
		return nil
	case *types.Var, types.Primitive, types.Literal:
		return nil
	default:
		return ilerr.Internalf(at, "unexpected type %v in alias definition", t)
	}
}
