package ast

import (
	"strconv"
	"strings"
)

func ExprString(expr Expr) string {
	ctx := newShowContext()
	ctx.showExprWalker(expr, 0)
	return ctx.String()
}

func PatternString(p Pattern) string {
	ctx := newShowContext()
	ctx.showPattern(p)
	return ctx.String()
}

func TypeString(t TypeExpr) string {
	ctx := newShowContext()
	ctx.showType(t, 0)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
}

func newShowContext() *showContext {
	return &showContext{Builder: &strings.Builder{}}
}

func (ctx *showContext) parens(open bool, f func()) {
	if open {
		ctx.WriteString("(")
	}
	f()
	if open {
		ctx.WriteString(")")
	}
}

func (ctx *showContext) commaSeparated(n int, f func(i int)) {
	for i := 0; i < n; i++ {
		if i > 0 {
			ctx.WriteString(", ")
		}
		f(i)
	}
}

// showExprWalker writes expr, in parentheses when outerPrecedence is
// greater than 0 and expr is not atomic
func (ctx *showContext) showExprWalker(expr Expr, outerPrecedence int16) {
	if expr == nil {
		ctx.WriteString("nil")
		return
	}
	switch expr := expr.(type) {
	case *Literal:
		ctx.WriteString(expr.CanonicalSyntax())
	case *Var:
		ctx.WriteString(expr.Name)
	case *Call:
		ctx.showExprWalker(expr.Func, 1)
		ctx.WriteString("(")
		ctx.commaSeparated(len(expr.Args), func(i int) { ctx.showExprWalker(expr.Args[i], 0) })
		ctx.WriteString(")")
	case *Binary:
		ctx.parens(outerPrecedence > 0, func() {
			ctx.showExprWalker(expr.Left, 1)
			ctx.WriteString(" " + expr.Op + " ")
			ctx.showExprWalker(expr.Right, 1)
		})
	case *Unary:
		ctx.WriteString(expr.Op)
		ctx.showExprWalker(expr.Operand, 1)
	case *If:
		ctx.parens(outerPrecedence > 0, func() {
			ctx.WriteString("if ")
			ctx.showExprWalker(expr.Cond, 0)
			ctx.WriteString(" then ")
			ctx.showExprWalker(expr.Then, 0)
			ctx.WriteString(" else ")
			ctx.showExprWalker(expr.Else, 0)
		})
	case *Func:
		ctx.parens(outerPrecedence > 0, func() {
			ctx.WriteString("\\")
			ctx.commaSeparated(len(expr.Params), func(i int) {
				ctx.WriteString(expr.Params[i].Name)
				if expr.Params[i].Type != nil {
					ctx.WriteString(": ")
					ctx.showType(expr.Params[i].Type, 0)
				}
			})
			ctx.WriteString(" => ")
			ctx.showExprWalker(expr.Body, 0)
		})
	case *Let:
		ctx.parens(outerPrecedence > 0, func() {
			ctx.WriteString("let ")
			if expr.Rec {
				ctx.WriteString("rec ")
			}
			ctx.WriteString(expr.Name)
			if expr.Type != nil {
				ctx.WriteString(": ")
				ctx.showType(expr.Type, 0)
			}
			ctx.WriteString(" = ")
			ctx.showExprWalker(expr.Value, 0)
			ctx.WriteString(" in ")
			ctx.showExprWalker(expr.Body, 0)
		})
	case *Record:
		ctx.WriteString("{")
		items := 0
		for _, spread := range expr.Spreads {
			if items > 0 {
				ctx.WriteString(", ")
			}
			ctx.WriteString("...")
			ctx.showExprWalker(spread, 1)
			items++
		}
		for _, field := range expr.Fields {
			if items > 0 {
				ctx.WriteString(", ")
			}
			ctx.WriteString(field.Name + " = ")
			ctx.showExprWalker(field.Value, 0)
			items++
		}
		ctx.WriteString("}")
	case *Select:
		ctx.showExprWalker(expr.Record, 1)
		ctx.WriteString("." + expr.Field)
	case *Tuple:
		ctx.WriteString("(")
		ctx.commaSeparated(len(expr.Elems), func(i int) { ctx.showExprWalker(expr.Elems[i], 0) })
		ctx.WriteString(")")
	case *Match:
		ctx.parens(outerPrecedence > 0, func() {
			ctx.WriteString("match ")
			ctx.showExprWalker(expr.Value, 1)
			ctx.WriteString(" { ")
			for i, c := range expr.Cases {
				if i > 0 {
					ctx.WriteString("; ")
				}
				ctx.showPattern(c.Pattern)
				ctx.WriteString(" -> ")
				ctx.showExprWalker(c.Body, 0)
			}
			ctx.WriteString(" }")
		})
	case *Ascribe:
		ctx.WriteString("(")
		ctx.showExprWalker(expr.Expr, 0)
		ctx.WriteString(" : ")
		ctx.showType(expr.Type, 0)
		ctx.WriteString(")")
	default:
		ctx.WriteString(expr.ExprName())
	}
}

func (ctx *showContext) showPattern(p Pattern) {
	switch p := p.(type) {
	case *LiteralPattern:
		ctx.WriteString(p.CanonicalSyntax())
	case *VarPattern:
		ctx.WriteString(p.Name)
	case *WildcardPattern:
		ctx.WriteString("_")
	case *TuplePattern:
		ctx.WriteString("(")
		ctx.commaSeparated(len(p.Elems), func(i int) { ctx.showPattern(p.Elems[i]) })
		ctx.WriteString(")")
	case *RecordPattern:
		ctx.WriteString("{")
		ctx.commaSeparated(len(p.Fields), func(i int) {
			ctx.WriteString(p.Fields[i].Name + ": ")
			ctx.showPattern(p.Fields[i].Pattern)
		})
		ctx.WriteString("}")
	case nil:
		ctx.WriteString("nil")
	}
}

// precedence: 0 top level, 1 inside a function domain, 2 inside union/intersection
func (ctx *showContext) showType(t TypeExpr, outerPrecedence int) {
	switch t := t.(type) {
	case *TypeName:
		ctx.WriteString(t.Name)
		if len(t.Args) > 0 {
			ctx.WriteString("[")
			ctx.commaSeparated(len(t.Args), func(i int) { ctx.showType(t.Args[i], 0) })
			ctx.WriteString("]")
		}
	case *TypeVarRef:
		ctx.WriteString(t.Name)
	case *FuncType:
		ctx.parens(outerPrecedence > 0, func() {
			ctx.showType(t.Param, 1)
			ctx.WriteString(" -> ")
			ctx.showType(t.Result, 0)
		})
	case *RecordType:
		ctx.WriteString("{")
		ctx.commaSeparated(len(t.Fields), func(i int) {
			ctx.WriteString(t.Fields[i].Name + ": ")
			ctx.showType(t.Fields[i].Type, 0)
		})
		if t.Open {
			if len(t.Fields) > 0 {
				ctx.WriteString(", ")
			}
			ctx.WriteString("..")
		}
		ctx.WriteString("}")
	case *TupleType:
		ctx.WriteString("(")
		ctx.commaSeparated(len(t.Elems), func(i int) { ctx.showType(t.Elems[i], 0) })
		ctx.WriteString(")")
	case *UnionType:
		ctx.parens(outerPrecedence > 1, func() {
			for i, alt := range t.Alts {
				if i > 0 {
					ctx.WriteString(" | ")
				}
				ctx.showType(alt, 2)
			}
		})
	case *IntersectionType:
		ctx.parens(outerPrecedence > 1, func() {
			for i, m := range t.Members {
				if i > 0 {
					ctx.WriteString(" & ")
				}
				ctx.showType(m, 2)
			}
		})
	case *LiteralType:
		ctx.WriteString(strconv.Quote(t.Value))
	case nil:
		ctx.WriteString("nil")
	}
}
