package infer

import (
	"github.com/cottand/shapecheck/frontend/alias"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/env"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
)

// binding is what a let expression and a top-level let declaration share
type binding struct {
	at    ast.Positioner
	name  string
	rec   bool
	annot ast.TypeExpr // can be nil
	value ast.Expr
}

// GenerateDecl returns the scheme a top-level let declaration binds, and
// the constraints its value must satisfy
func (g *Generator) GenerateDecl(decl *ast.LetDecl, e env.Env) (types.Scheme, constraint.Set, ilerr.IleError) {
	g.warnings = nil
	return g.inferBinding(e, 0, binding{
		at:    decl,
		name:  decl.Name,
		rec:   decl.Rec,
		annot: decl.Type,
		value: decl.Value,
	})
}

// inferBinding generates the value of a let, then solves its constraints
// before generalising so that no variable which the constraints pin down
// gets quantified. When they cannot be solved the binding stays
// monomorphic, and the returned constraints fail again where the whole
// expression is solved.
func (g *Generator) inferBinding(e env.Env, level int, b binding) (types.Scheme, constraint.Set, ilerr.IleError) {
	var declared types.Type
	if b.annot != nil {
		resolved, err := g.registry.Resolve(b.annot, alias.NewScope(level+1))
		if err != nil {
			return types.Scheme{}, constraint.Set{}, err
		}
		declared = resolved
	}

	valueEnv := e
	var placeholder *types.Var
	if b.rec {
		// the value sees itself monomorphically
		placeholder = g.fresh(level + 1)
		valueEnv = e.BindMono(b.name, placeholder)
	}
	t, cs, err := g.infer(valueEnv, level+1, b.value)
	if err != nil {
		return types.Scheme{}, cs, err
	}
	if placeholder != nil {
		cs = cs.Add(equal(placeholder, t, b.at))
	}
	if declared != nil {
		cs = cs.Add(constraint.NewSubtype(t, declared, constraint.OriginAnnotation, b.at))
		t = declared
	}

	subst, solveErr := g.solver.Solve(cs)
	if solveErr != nil {
		logger.Debug("let value does not solve, binding it monomorphically", "name", b.name, "error", solveErr)
		return types.Mono(t), cs, nil
	}
	scheme := e.Apply(subst).Generalize(subst.Apply(t))
	logger.Debug("generalised let", "name", b.name, "scheme", scheme)
	return scheme, cs, nil
}
