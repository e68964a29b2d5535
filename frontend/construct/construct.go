// Package construct builds expression trees and types by hand, for tests
// and for callers that do not go through a parser
package construct

import (
	"strconv"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/types"
)

// Types

func TVar(f *types.Fresher, level int) *types.Var { return f.Fresh(level) }

// Function type: `Int -> Int`
func TArrow1(arg, ret types.Type) *types.Func { return types.NewFunc(arg, ret) }

// Function type: `Int -> Int -> Int`
func TArrow2(arg1, arg2, ret types.Type) types.Type {
	return types.Curried([]types.Type{arg1, arg2}, ret)
}

// Closed record type: `{a: Int}`
func TRecord(fields map[string]types.Type) *types.Record { return types.NewRecord(fields, nil) }

// Open record type: `{a: Int | ρ}`
func TRecordOpen(fields map[string]types.Type, row *types.Var) *types.Record {
	return types.NewRecord(fields, row)
}

func TLiteral(value string) types.Literal { return types.Literal{Value: value} }

func TAlias(name string, args ...types.Type) *types.Alias { return types.NewAlias(name, args...) }

// Expressions

func Int(n int) *ast.Literal { return &ast.Literal{Kind: ast.IntLiteral, Value: strconv.Itoa(n)} }

func String(s string) *ast.Literal { return &ast.Literal{Kind: ast.StringLiteral, Value: s} }

func Bool(b bool) *ast.Literal {
	return &ast.Literal{Kind: ast.BoolLiteral, Value: strconv.FormatBool(b)}
}

func Unit() *ast.Literal { return &ast.Literal{Kind: ast.UnitLiteral} }

func Var(name string) *ast.Var { return &ast.Var{Name: name} }

func Call(f ast.Expr, args ...ast.Expr) *ast.Call { return &ast.Call{Func: f, Args: args} }

func Binary(op string, left, right ast.Expr) *ast.Binary {
	return &ast.Binary{Op: op, Left: left, Right: right}
}

func Unary(op string, operand ast.Expr) *ast.Unary { return &ast.Unary{Op: op, Operand: operand} }

func If(cond, then, els ast.Expr) *ast.If { return &ast.If{Cond: cond, Then: then, Else: els} }

// Func is \args => body, with unannotated parameters
func Func(args []string, body ast.Expr) *ast.Func {
	params := make([]ast.Param, 0, len(args))
	for _, arg := range args {
		params = append(params, ast.Param{Name: arg})
	}
	return &ast.Func{Params: params, Body: body}
}

func Func1(arg string, body ast.Expr) *ast.Func { return Func([]string{arg}, body) }

func Func2(arg1, arg2 string, body ast.Expr) *ast.Func { return Func([]string{arg1, arg2}, body) }

// FuncAnnotated is \(arg: t) => body
func FuncAnnotated(arg string, t ast.TypeExpr, body ast.Expr) *ast.Func {
	return &ast.Func{Params: []ast.Param{{Name: arg, Type: t}}, Body: body}
}

func Let(name string, value, body ast.Expr) *ast.Let {
	return &ast.Let{Name: name, Value: value, Body: body}
}

func LetRec(name string, value, body ast.Expr) *ast.Let {
	return &ast.Let{Name: name, Rec: true, Value: value, Body: body}
}

func LetAnnotated(name string, t ast.TypeExpr, value, body ast.Expr) *ast.Let {
	return &ast.Let{Name: name, Type: t, Value: value, Body: body}
}

func Field(name string, value ast.Expr) ast.Field { return ast.Field{Name: name, Value: value} }

func Record(fields ...ast.Field) *ast.Record { return &ast.Record{Fields: fields} }

// Spread is { ...spreads, fields }
func Spread(spreads []ast.Expr, fields ...ast.Field) *ast.Record {
	return &ast.Record{Fields: fields, Spreads: spreads}
}

func Select(record ast.Expr, field string) *ast.Select {
	return &ast.Select{Record: record, Field: field}
}

func Tuple(elems ...ast.Expr) *ast.Tuple { return &ast.Tuple{Elems: elems} }

func Case(p ast.Pattern, body ast.Expr) ast.Case { return ast.Case{Pattern: p, Body: body} }

func Match(value ast.Expr, cases ...ast.Case) *ast.Match { return &ast.Match{Value: value, Cases: cases} }

func Ascribe(expr ast.Expr, t ast.TypeExpr) *ast.Ascribe { return &ast.Ascribe{Expr: expr, Type: t} }

// Patterns

func PInt(n int) *ast.LiteralPattern {
	return &ast.LiteralPattern{Kind: ast.IntLiteral, Value: strconv.Itoa(n)}
}

func PString(s string) *ast.LiteralPattern {
	return &ast.LiteralPattern{Kind: ast.StringLiteral, Value: s}
}

func PBool(b bool) *ast.LiteralPattern {
	return &ast.LiteralPattern{Kind: ast.BoolLiteral, Value: strconv.FormatBool(b)}
}

func PVar(name string) *ast.VarPattern { return &ast.VarPattern{Name: name} }

func PWildcard() *ast.WildcardPattern { return &ast.WildcardPattern{} }

func PTuple(elems ...ast.Pattern) *ast.TuplePattern { return &ast.TuplePattern{Elems: elems} }

func PField(name string, p ast.Pattern) ast.FieldPattern {
	return ast.FieldPattern{Name: name, Pattern: p}
}

func PRecord(fields ...ast.FieldPattern) *ast.RecordPattern {
	return &ast.RecordPattern{Fields: fields}
}

// Annotations

func TName(name string, args ...ast.TypeExpr) *ast.TypeName {
	return &ast.TypeName{Name: name, Args: args}
}

func TRef(name string) *ast.TypeVarRef { return &ast.TypeVarRef{Name: name} }

func TFunc(param, result ast.TypeExpr) *ast.FuncType {
	return &ast.FuncType{Param: param, Result: result}
}

func TField(name string, t ast.TypeExpr) ast.FieldType { return ast.FieldType{Name: name, Type: t} }

func TRecordExpr(fields ...ast.FieldType) *ast.RecordType { return &ast.RecordType{Fields: fields} }

func TUnion(alts ...ast.TypeExpr) *ast.UnionType { return &ast.UnionType{Alts: alts} }

func TLiteralExpr(value string) *ast.LiteralType { return &ast.LiteralType{Value: value} }

// Declarations

func TypeAlias(name string, params []string, body ast.TypeExpr) *ast.TypeAliasDecl {
	return &ast.TypeAliasDecl{Name: name, Params: params, Body: body}
}

func LetDecl(name string, value ast.Expr) *ast.LetDecl { return &ast.LetDecl{Name: name, Value: value} }

func ExprDecl(expr ast.Expr) *ast.ExprDecl { return &ast.ExprDecl{Expr: expr} }

func Program(decls ...ast.Decl) *ast.Program { return &ast.Program{Decls: decls} }
