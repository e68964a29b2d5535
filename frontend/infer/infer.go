// Package infer walks expression trees and produces the type of each
// expression together with the constraints it must satisfy
package infer

import (
	"github.com/cottand/shapecheck/frontend/alias"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/env"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/solver"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/internal/log"
)

var logger = log.DefaultLogger.With("section", "infer")

// Generator produces constraints for one checking session. Lets are solved
// as soon as their value is generated, so it needs the session's solver.
type Generator struct {
	fresher  *types.Fresher
	registry *alias.Registry
	solver   *solver.Solver
	warnings []ilerr.IleError
}

func New(fresher *types.Fresher, registry *alias.Registry, s *solver.Solver) *Generator {
	return &Generator{fresher: fresher, registry: registry, solver: s}
}

// Generate returns the type of expr in e, which holds once the returned
// constraints are solved
func (g *Generator) Generate(expr ast.Expr, e env.Env) (types.Type, constraint.Set, ilerr.IleError) {
	g.warnings = nil
	t, cs, err := g.infer(e, 0, expr)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	logger.Debug("generated", "expr", expr, "type", t, "constraints", cs.Len())
	return t, cs, nil
}

// Warnings found by the last call to Generate, in source order
func (g *Generator) Warnings() []ilerr.IleError {
	return g.warnings
}

func (g *Generator) fresh(level int) *types.Var {
	return g.fresher.Fresh(level)
}

func equal(a, b types.Type, at ast.Positioner) constraint.Constraint {
	return constraint.NewEqual(a, b, constraint.OriginInference, at)
}

func (g *Generator) infer(e env.Env, level int, expr ast.Expr) (types.Type, constraint.Set, ilerr.IleError) {
	switch expr := expr.(type) {
	case *ast.Literal:
		return g.inferLiteral(level, expr, false)

	case *ast.Var:
		scheme, ok := e.Lookup(expr.Name)
		if !ok {
			return nil, constraint.Set{}, ilerr.New(ilerr.NewUndefinedVariable{Positioner: expr, Name: expr.Name})
		}
		ret := g.fresh(level)
		return ret, constraint.NewSet(equal(ret, scheme.Instantiate(g.fresher, level), expr)), nil

	case *ast.Call:
		ft, cs, err := g.infer(e, level, expr.Func)
		if err != nil {
			return nil, cs, err
		}
		args := make([]types.Type, 0, len(expr.Args))
		for _, arg := range expr.Args {
			ta, argCs, err := g.infer(e, level, arg)
			if err != nil {
				return nil, cs, err
			}
			cs = cs.Union(argCs)
			args = append(args, ta)
		}
		// f() passes unit
		if len(args) == 0 {
			args = append(args, types.Unit)
		}
		ret := g.fresh(level)
		return ret, cs.Add(equal(ft, types.Curried(args, ret), expr)), nil

	case *ast.Binary:
		return g.inferBinary(e, level, expr)

	case *ast.Unary:
		operand, cs, err := g.infer(e, level, expr.Operand)
		if err != nil {
			return nil, cs, err
		}
		var t types.Type
		switch expr.Op {
		case "!":
			t = types.Bool
		case "-":
			t = types.Int
		default:
			return nil, cs, ilerr.New(ilerr.NewUnimplemented{Positioner: expr, Feature: "unary operator " + expr.Op})
		}
		ret := g.fresh(level)
		return ret, cs.Add(equal(operand, t, expr)).Add(equal(ret, t, expr)), nil

	case *ast.If:
		cond, cs, err := g.infer(e, level, expr.Cond)
		if err != nil {
			return nil, cs, err
		}
		then, thenCs, err := g.infer(e, level, expr.Then)
		if err != nil {
			return nil, cs, err
		}
		els, elseCs, err := g.infer(e, level, expr.Else)
		if err != nil {
			return nil, cs, err
		}
		ret := g.fresh(level)
		return ret, cs.Union(thenCs).Union(elseCs).
			Add(equal(cond, types.Bool, expr.Cond)).
			Add(constraint.NewBranch(ret, []types.Type{then, els}, expr)), nil

	case *ast.Func:
		scope := alias.NewScope(level)
		params := make([]types.Type, 0, len(expr.Params))
		bodyEnv := e
		for _, p := range expr.Params {
			var pt types.Type = g.fresh(level)
			if p.Type != nil {
				annotated, err := g.registry.Resolve(p.Type, scope)
				if err != nil {
					return nil, constraint.Set{}, err
				}
				pt = annotated
			}
			bodyEnv = bodyEnv.BindMono(p.Name, pt)
			params = append(params, pt)
		}
		body, cs, err := g.infer(bodyEnv, level, expr.Body)
		if err != nil {
			return nil, cs, err
		}
		// \ => body takes unit
		if len(params) == 0 {
			params = append(params, types.Unit)
		}
		ret := g.fresh(level)
		return ret, cs.Add(equal(ret, types.Curried(params, body), expr)), nil

	case *ast.Let:
		bound, cs, err := g.inferBinding(e, level, binding{
			at:    expr,
			name:  expr.Name,
			rec:   expr.Rec,
			annot: expr.Type,
			value: expr.Value,
		})
		if err != nil {
			return nil, cs, err
		}
		body, bodyCs, err := g.infer(e.Bind(expr.Name, bound), level, expr.Body)
		if err != nil {
			return nil, cs, err
		}
		return body, cs.Union(bodyCs), nil

	case *ast.Record:
		return g.inferRecord(e, level, expr)

	case *ast.Select:
		// target ~ {field: ret | rest}
		target, cs, err := g.infer(e, level, expr.Record)
		if err != nil {
			return nil, cs, err
		}
		ret, rest := g.fresh(level), g.fresh(level)
		shape := types.NewRecord(map[string]types.Type{expr.Field: ret}, rest)
		return ret, cs.Add(equal(target, shape, expr)), nil

	case *ast.Tuple:
		elems := make([]types.Type, 0, len(expr.Elems))
		cs := constraint.NewSet()
		for _, elem := range expr.Elems {
			t, elemCs, err := g.infer(e, level, elem)
			if err != nil {
				return nil, cs, err
			}
			cs = cs.Union(elemCs)
			elems = append(elems, t)
		}
		ret := g.fresh(level)
		return ret, cs.Add(equal(ret, types.NewTuple(elems...), expr)), nil

	case *ast.Match:
		return g.inferMatch(e, level, expr)

	case *ast.Ascribe:
		t, cs, err := g.infer(e, level, expr.Expr)
		if err != nil {
			return nil, cs, err
		}
		declared, err := g.registry.Resolve(expr.Type, alias.NewScope(level))
		if err != nil {
			return nil, cs, err
		}
		return declared, cs.Add(constraint.NewSubtype(t, declared, constraint.OriginAnnotation, expr)), nil

	case nil:
		return nil, constraint.Set{}, ilerr.Internalf(ast.Range{}, "nil expression")
	}

	return nil, constraint.Set{}, ilerr.New(ilerr.NewUnimplemented{Positioner: expr, Feature: expr.Describe()})
}

// inferLiteral gives a fresh variable equal to the literal's type. A string
// is a literal type only as the direct value of a record field, where it
// can serve as a discriminator.
func (g *Generator) inferLiteral(level int, expr *ast.Literal, discriminator bool) (types.Type, constraint.Set, ilerr.IleError) {
	var t types.Type
	switch expr.Kind {
	case ast.IntLiteral:
		t = types.Int
	case ast.BoolLiteral:
		t = types.Bool
	case ast.UnitLiteral:
		t = types.Unit
	case ast.StringLiteral:
		t = types.String
		if discriminator {
			t = types.Literal{Value: expr.Value}
		}
	default:
		return nil, constraint.Set{}, ilerr.Internalf(expr, "unexpected literal kind %s", expr.Kind)
	}
	ret := g.fresh(level)
	return ret, constraint.NewSet(equal(ret, t, expr)), nil
}

func (g *Generator) inferRecord(e env.Env, level int, expr *ast.Record) (types.Type, constraint.Set, ilerr.IleError) {
	cs := constraint.NewSet()
	fields := make(map[string]types.Type, len(expr.Fields))
	for _, f := range expr.Fields {
		if _, dup := fields[f.Name]; dup {
			return nil, cs, ilerr.New(ilerr.NewDuplicateDefinition{Positioner: f, Name: f.Name})
		}
		var t types.Type
		var fieldCs constraint.Set
		var err ilerr.IleError
		if lit, ok := f.Value.(*ast.Literal); ok {
			t, fieldCs, err = g.inferLiteral(level, lit, true)
		} else {
			t, fieldCs, err = g.infer(e, level, f.Value)
		}
		if err != nil {
			return nil, cs, err
		}
		cs = cs.Union(fieldCs)
		fields[f.Name] = t
	}
	explicit := types.NewRecord(fields, nil)
	if len(expr.Spreads) == 0 {
		return explicit, cs, nil
	}

	spreads := make([]types.Type, 0, len(expr.Spreads))
	for _, spread := range expr.Spreads {
		t, spreadCs, err := g.infer(e, level, spread)
		if err != nil {
			return nil, cs, err
		}
		cs = cs.Union(spreadCs).Add(constraint.NewRecordShape(t, constraint.OriginInference, spread))
		spreads = append(spreads, t)
	}
	ret := g.fresh(level)
	return ret, cs.Add(constraint.NewMerge(ret, spreads, explicit, expr)), nil
}
