package infer

import (
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/env"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
)

type operatorKind int

const (
	arithmetic operatorKind = iota
	concatenation
	equality
	ordering
	logical
)

var binaryOperators = map[string]operatorKind{
	"+":  arithmetic,
	"-":  arithmetic,
	"*":  arithmetic,
	"/":  arithmetic,
	"%":  arithmetic,
	"++": concatenation,
	"==": equality,
	"!=": equality,
	"<":  ordering,
	"<=": ordering,
	">":  ordering,
	">=": ordering,
	"&&": logical,
	"||": logical,
}

func (g *Generator) inferBinary(e env.Env, level int, expr *ast.Binary) (types.Type, constraint.Set, ilerr.IleError) {
	kind, ok := binaryOperators[expr.Op]
	if !ok {
		return nil, constraint.Set{}, ilerr.New(ilerr.NewUnimplemented{Positioner: expr, Feature: "binary operator " + expr.Op})
	}
	left, cs, err := g.infer(e, level, expr.Left)
	if err != nil {
		return nil, cs, err
	}
	right, rightCs, err := g.infer(e, level, expr.Right)
	if err != nil {
		return nil, cs, err
	}
	cs = cs.Union(rightCs)

	ret := g.fresh(level)
	switch kind {
	case arithmetic:
		cs = cs.Add(equal(left, types.Int, expr.Left)).
			Add(equal(right, types.Int, expr.Right)).
			Add(equal(ret, types.Int, expr))
	case concatenation:
		cs = cs.Add(equal(left, types.String, expr.Left)).
			Add(equal(right, types.String, expr.Right)).
			Add(equal(ret, types.String, expr))
	case equality:
		cs = cs.Add(equal(left, right, expr)).
			Add(constraint.NewInstance(left, constraint.Comparable, expr)).
			Add(equal(ret, types.Bool, expr))
	case ordering:
		cs = cs.Add(equal(left, types.Int, expr.Left)).
			Add(equal(right, types.Int, expr.Right)).
			Add(equal(ret, types.Bool, expr))
	case logical:
		cs = cs.Add(equal(left, types.Bool, expr.Left)).
			Add(equal(right, types.Bool, expr.Right)).
			Add(equal(ret, types.Bool, expr))
	}
	return ret, cs, nil
}
