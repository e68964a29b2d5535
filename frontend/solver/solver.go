// Package solver discharges constraint sets into a substitution
package solver

import (
	"github.com/cottand/shapecheck/frontend/alias"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/patterns"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/internal/log"
)

var logger = log.DefaultLogger.With("section", "solver")

const defaultDepthLimit = 250

type Config struct {
	// MaxDepth bounds how deep unification and subtyping may recurse
	MaxDepth int
}

func DefaultConfig() Config {
	return Config{MaxDepth: defaultDepthLimit}
}

// Solver is bound to the fresh variable source and alias registry of one
// checking session
type Solver struct {
	config   Config
	fresher  *types.Fresher
	registry *alias.Registry
}

func New(fresher *types.Fresher, registry *alias.Registry, config Config) *Solver {
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaultDepthLimit
	}
	return &Solver{config: config, fresher: fresher, registry: registry}
}

// Solve discharges cs, highest priority first. Before each constraint is
// dispatched the substitution found so far is applied to it, and whatever
// it adds is applied to every constraint still pending.
// It stops at the first constraint that cannot be satisfied.
func (s *Solver) Solve(cs constraint.Set) (types.Subst, ilerr.IleError) {
	pending := cs.Simplify().Sorted()
	subst := types.EmptySubst()
	logger.Debug("solving", "constraints", len(pending))
	for len(pending) > 0 {
		c := pending[0].Apply(subst)
		pending = pending[1:]

		derived, err := s.dispatch(c)
		if err != nil {
			logger.Debug("constraint failed", "constraint", c, "error", err)
			return subst, err
		}
		if derived.IsEmpty() {
			continue
		}
		subst = derived.Compose(subst)
		for i, p := range pending {
			pending[i] = p.Apply(derived)
		}
	}
	logger.Debug("solved", "subst", subst)
	return subst, nil
}

// Unify solves a single equality outside of any constraint set
func (s *Solver) Unify(a, b types.Type, at ast.Positioner) (types.Subst, ilerr.IleError) {
	return s.newUnifier(at).unify(a, b)
}

// Subtype solves a single subtyping outside of any constraint set
func (s *Solver) Subtype(sub, super types.Type, at ast.Positioner) (types.Subst, ilerr.IleError) {
	return s.newUnifier(at).subtype(sub, super)
}

func (s *Solver) dispatch(c constraint.Constraint) (types.Subst, ilerr.IleError) {
	if constraint.IsTriviallyTrue(c) {
		return types.EmptySubst(), nil
	}
	logger.Debug("dispatch", "kind", c.Kind(), "constraint", c)
	u := s.newUnifier(c)
	switch c := c.(type) {
	case *constraint.Equal:
		return u.unify(c.Left, c.Right)
	case *constraint.Subtype:
		return u.subtype(c.Sub, c.Super)
	case *constraint.Instance:
		return types.EmptySubst(), s.instance(c)
	case *constraint.RecordShape:
		return u.recordShape(c.Type)
	case *constraint.Merge:
		return u.merge(c)
	case *constraint.UnionCompat:
		return u.unionCompat(c)
	case *constraint.Branch:
		return u.branch(c)
	case *constraint.Exhaustive:
		return types.EmptySubst(), s.exhaustive(c)
	default:
		return types.Subst{}, ilerr.Internalf(c, "unexpected constraint %T", c)
	}
}

func (s *Solver) exhaustive(c *constraint.Exhaustive) ilerr.IleError {
	scrutinee := s.registry.Normalize(c.Scrutinee)
	if !patterns.IsEnumerable(scrutinee) {
		logger.Debug("skipping exhaustiveness of unbounded type", "scrutinee", scrutinee)
		return nil
	}
	missing, decided := patterns.Exhaustiveness(scrutinee, c.Patterns)
	if !decided || len(missing) == 0 {
		return nil
	}
	return ilerr.New(ilerr.NewNonExhaustive{Positioner: c, Missing: missing})
}
