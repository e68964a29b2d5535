package infer

import (
	"fmt"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/env"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/patterns"
	"github.com/cottand/shapecheck/frontend/types"
)

func (g *Generator) inferMatch(e env.Env, level int, expr *ast.Match) (types.Type, constraint.Set, ilerr.IleError) {
	scrutinee, cs, err := g.infer(e, level, expr.Value)
	if err != nil {
		return nil, cs, err
	}
	cases := expr.Patterns()
	known := g.knownShape(scrutinee, cs)
	analysis := patterns.Analyze(known, cases)
	g.warnings = append(g.warnings, analysis.Warnings(cases)...)
	if isProduct(known) && analysis.Decided && !analysis.Exhaustive() {
		g.warnings = append(g.warnings, ilerr.New(ilerr.NewIncompleteMatch{Positioner: expr, Missing: analysis.Missing}))
	}

	var patternTypes, results []types.Type
	for i, c := range expr.Cases {
		caseEnv := e
		if v, ok := c.Pattern.(*ast.VarPattern); ok {
			caseEnv = caseEnv.BindMono(v.Name, scrutinee)
		} else if _, ok := c.Pattern.(*ast.WildcardPattern); !ok {
			vars := make(map[string]types.Type)
			pt, err := g.patternType(level, c.Pattern, vars)
			if err != nil {
				return nil, cs, err
			}
			patternTypes = append(patternTypes, pt)
			for name, t := range vars {
				if refined, ok := analysis.Refinements[i][name]; ok {
					t = refined
				}
				caseEnv = caseEnv.BindMono(name, t)
			}
		}
		body, bodyCs, err := g.infer(caseEnv, level, c.Body)
		if err != nil {
			return nil, cs, err
		}
		cs = cs.Union(bodyCs)
		results = append(results, body)
	}

	if len(patternTypes) > 0 {
		cs = cs.Add(constraint.NewUnionCompat(scrutinee, patternTypes, expr))
	}
	cs = cs.Add(constraint.NewExhaustive(scrutinee, cases, expr))
	if len(results) == 0 {
		return types.Unit, cs, nil
	}
	ret := g.fresh(level)
	return ret, cs.Add(constraint.NewBranch(ret, results, expr)), nil
}

// knownShape is what can be told about scrutinee from the constraints
// generated so far, with aliases normalised. It is scrutinee itself when
// they do not solve.
func (g *Generator) knownShape(scrutinee types.Type, cs constraint.Set) types.Type {
	subst, err := g.solver.Solve(cs)
	if err != nil {
		return scrutinee
	}
	return g.registry.Normalize(subst.Apply(scrutinee))
}

func isProduct(t types.Type) bool {
	switch t.(type) {
	case *types.Tuple, *types.Record:
		return true
	default:
		return false
	}
}

// patternType is the type of the values p can match. It records the
// variables p binds in vars.
func (g *Generator) patternType(level int, p ast.Pattern, vars map[string]types.Type) (types.Type, ilerr.IleError) {
	switch p := p.(type) {
	case *ast.LiteralPattern:
		switch p.Kind {
		case ast.IntLiteral:
			return types.Int, nil
		case ast.BoolLiteral:
			return types.Bool, nil
		case ast.UnitLiteral:
			return types.Unit, nil
		case ast.StringLiteral:
			return types.Literal{Value: p.Value}, nil
		}
		return nil, ilerr.New(ilerr.NewUnsupportedPattern{Positioner: p, Pattern: ast.PatternString(p)})
	case *ast.VarPattern:
		v := g.fresh(level)
		vars[p.Name] = v
		return v, nil
	case *ast.WildcardPattern:
		return g.fresh(level), nil
	case *ast.TuplePattern:
		elems := make([]types.Type, 0, len(p.Elems))
		for _, elem := range p.Elems {
			t, err := g.patternType(level, elem, vars)
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
		}
		return types.NewTuple(elems...), nil
	case *ast.RecordPattern:
		// extra fields are allowed
		fields := make(map[string]types.Type, len(p.Fields))
		for _, f := range p.Fields {
			t, err := g.patternType(level, f.Pattern, vars)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = t
		}
		return types.NewRecord(fields, g.fresh(level)), nil
	case nil:
		return nil, ilerr.New(ilerr.NewUnsupportedPattern{Positioner: ast.Range{}, Pattern: "<nil>"})
	default:
		return nil, ilerr.New(ilerr.NewUnsupportedPattern{Positioner: p, Pattern: fmt.Sprintf("%T", p)})
	}
}
