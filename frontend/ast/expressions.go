package ast

import (
	"strconv"
)

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Var)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Binary)(nil)
	_ Expr = (*Unary)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*Func)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*Record)(nil)
	_ Expr = (*Select)(nil)
	_ Expr = (*Tuple)(nil)
	_ Expr = (*Match)(nil)
	_ Expr = (*Ascribe)(nil)
)

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	UnitLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case IntLiteral:
		return "int"
	case StringLiteral:
		return "string"
	case BoolLiteral:
		return "bool"
	case UnitLiteral:
		return "unit"
	default:
		return "literal(" + strconv.Itoa(int(k)) + ")"
	}
}

// Literal is a constant. Value holds the decimal digits of an int,
// the unquoted contents of a string, "true" or "false" for a bool,
// and is empty for unit.
type Literal struct {
	Range
	Kind  LiteralKind
	Value string
}

// CanonicalSyntax renders the literal the way it would appear in source
func (e *Literal) CanonicalSyntax() string {
	switch e.Kind {
	case StringLiteral:
		return strconv.Quote(e.Value)
	case BoolLiteral:
		if e.Value == "true" {
			return "True"
		}
		return "False"
	case UnitLiteral:
		return "()"
	default:
		return e.Value
	}
}

func (e *Literal) Hash() uint64 {
	return hashOf("Literal", uint64(e.Kind), hashString(e.Value))
}

// Var is a reference to a name bound in the environment
type Var struct {
	Range
	Name string
}

func (e *Var) Hash() uint64 { return hashOf("Var", hashString(e.Name)) }

// Call applies Func to Args. Calls are curried: f(a, b) is f(a)(b),
// and f() passes unit.
type Call struct {
	Range
	Func Expr
	Args []Expr
}

func (e *Call) Hash() uint64 { return hashOf("Call", e.Func.Hash(), hashAll(e.Args)) }

// Binary is an infix operator application like a + b
type Binary struct {
	Range
	Op          string
	Left, Right Expr
}

func (e *Binary) Hash() uint64 {
	return hashOf("Binary", hashString(e.Op), e.Left.Hash(), e.Right.Hash())
}

// Unary is a prefix operator application like !a or -a
type Unary struct {
	Range
	Op      string
	Operand Expr
}

func (e *Unary) Hash() uint64 { return hashOf("Unary", hashString(e.Op), e.Operand.Hash()) }

type If struct {
	Range
	Cond, Then, Else Expr
}

func (e *If) Hash() uint64 { return hashOf("If", e.Cond.Hash(), e.Then.Hash(), e.Else.Hash()) }

// Param is a lambda parameter, with an optional annotation
type Param struct {
	Range
	Name string
	Type TypeExpr // can be nil
}

func (p Param) Hash() uint64 { return hashOf("Param", hashString(p.Name), hashNode(p.Type)) }

// Func is a lambda \a, b => body
type Func struct {
	Range
	Params []Param
	Body   Expr
}

func (e *Func) Hash() uint64 { return hashOf("Func", hashAll(e.Params), e.Body.Hash()) }

// Let binds Name to Value within Body. When Rec is set, Name is also
// visible within Value.
type Let struct {
	Range
	Name  string
	Rec   bool
	Type  TypeExpr // can be nil
	Value Expr
	Body  Expr
}

func (e *Let) Hash() uint64 {
	rec := uint64(0)
	if e.Rec {
		rec = 1
	}
	return hashOf("Let", hashString(e.Name), rec, hashNode(e.Type), e.Value.Hash(), e.Body.Hash())
}

type Field struct {
	Range
	Name  string
	Value Expr
}

func (f Field) Hash() uint64 { return hashOf("Field", hashString(f.Name), f.Value.Hash()) }

// Record is a record literal { ...s1, ...s2, a = 1, b = 2 }
type Record struct {
	Range
	Fields  []Field
	Spreads []Expr
}

func (e *Record) Hash() uint64 { return hashOf("Record", hashAll(e.Fields), hashAll(e.Spreads)) }

// Select projects a field out of a record: r.field
type Select struct {
	Range
	Record Expr
	Field  string
}

func (e *Select) Hash() uint64 { return hashOf("Select", e.Record.Hash(), hashString(e.Field)) }

type Tuple struct {
	Range
	Elems []Expr
}

func (e *Tuple) Hash() uint64 { return hashOf("Tuple", hashAll(e.Elems)) }

type Case struct {
	Range
	Pattern Pattern
	Body    Expr
}

func (c Case) Hash() uint64 { return hashOf("Case", c.Pattern.Hash(), c.Body.Hash()) }

// Match selects the first of Cases whose Pattern matches Value
type Match struct {
	Range
	Value Expr
	Cases []Case
}

func (e *Match) Hash() uint64 { return hashOf("Match", e.Value.Hash(), hashAll(e.Cases)) }

// Patterns returns the patterns of every case, in order
func (e *Match) Patterns() []Pattern {
	patterns := make([]Pattern, 0, len(e.Cases))
	for _, c := range e.Cases {
		patterns = append(patterns, c.Pattern)
	}
	return patterns
}

// Ascribe is an expression annotated with a type: (expr : T)
type Ascribe struct {
	Range
	Expr Expr
	Type TypeExpr
}

func (e *Ascribe) Hash() uint64 { return hashOf("Ascribe", e.Expr.Hash(), e.Type.Hash()) }

func (e *Literal) ExprName() string { return e.CanonicalSyntax() }
func (e *Var) ExprName() string     { return e.Name }
func (e *Call) ExprName() string    { return "Call" }
func (e *Binary) ExprName() string  { return "Binary(" + e.Op + ")" }
func (e *Unary) ExprName() string   { return "Unary(" + e.Op + ")" }
func (e *If) ExprName() string      { return "If" }
func (e *Func) ExprName() string    { return "Func" }
func (e *Let) ExprName() string     { return "Let(" + e.Name + ")" }
func (e *Record) ExprName() string  { return "Record" }
func (e *Select) ExprName() string  { return "Select(" + e.Field + ")" }
func (e *Tuple) ExprName() string   { return "Tuple" }
func (e *Match) ExprName() string   { return "Match" }
func (e *Ascribe) ExprName() string { return "Ascribe" }

func (e *Literal) Describe() string { return e.Kind.String() + " literal" }
func (e *Var) Describe() string     { return "variable" }
func (e *Call) Describe() string    { return "function call" }
func (e *Binary) Describe() string  { return "operator " + e.Op }
func (e *Unary) Describe() string   { return "operator " + e.Op }
func (e *If) Describe() string      { return "conditional" }
func (e *Func) Describe() string    { return "function" }
func (e *Let) Describe() string     { return "let binding" }
func (e *Record) Describe() string  { return "record" }
func (e *Select) Describe() string  { return "field selection" }
func (e *Tuple) Describe() string   { return "tuple" }
func (e *Match) Describe() string   { return "match expression" }
func (e *Ascribe) Describe() string { return "type annotation" }

func (e *Literal) exprNode() {}
func (e *Var) exprNode()     {}
func (e *Call) exprNode()    {}
func (e *Binary) exprNode()  {}
func (e *Unary) exprNode()   {}
func (e *If) exprNode()      {}
func (e *Func) exprNode()    {}
func (e *Let) exprNode()     {}
func (e *Record) exprNode()  {}
func (e *Select) exprNode()  {}
func (e *Tuple) exprNode()   {}
func (e *Match) exprNode()   {}
func (e *Ascribe) exprNode() {}
