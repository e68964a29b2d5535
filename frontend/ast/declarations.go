package ast

var (
	_ Decl = (*TypeAliasDecl)(nil)
	_ Decl = (*LetDecl)(nil)
	_ Decl = (*ExprDecl)(nil)
)

// TypeAliasDecl is type Name[Params...] = Body
type TypeAliasDecl struct {
	Range
	Name   string
	Params []string
	Body   TypeExpr
}

func (d *TypeAliasDecl) Hash() uint64 {
	parts := []uint64{hashString(d.Name), d.Body.Hash()}
	for _, p := range d.Params {
		parts = append(parts, hashString(p))
	}
	return hashOf("TypeAliasDecl", parts...)
}

// LetDecl is a top-level binding, visible to every later declaration
type LetDecl struct {
	Range
	Name  string
	Rec   bool
	Type  TypeExpr // can be nil
	Value Expr
}

func (d *LetDecl) Hash() uint64 {
	rec := uint64(0)
	if d.Rec {
		rec = 1
	}
	return hashOf("LetDecl", hashString(d.Name), rec, hashNode(d.Type), d.Value.Hash())
}

// ExprDecl is an expression statement, checked for its type only
type ExprDecl struct {
	Range
	Expr Expr
}

func (d *ExprDecl) Hash() uint64 { return hashOf("ExprDecl", d.Expr.Hash()) }

// Program is a sequence of top-level declarations, checked in order
type Program struct {
	Range
	Decls []Decl
}

func (p *Program) Hash() uint64 { return hashOf("Program", hashAll(p.Decls)) }

func (d *TypeAliasDecl) declNode() {}
func (d *LetDecl) declNode()       {}
func (d *ExprDecl) declNode()      {}
