package ast

var (
	_ TypeExpr = (*TypeName)(nil)
	_ TypeExpr = (*TypeVarRef)(nil)
	_ TypeExpr = (*FuncType)(nil)
	_ TypeExpr = (*RecordType)(nil)
	_ TypeExpr = (*TupleType)(nil)
	_ TypeExpr = (*UnionType)(nil)
	_ TypeExpr = (*IntersectionType)(nil)
	_ TypeExpr = (*LiteralType)(nil)
)

// TypeName refers to a primitive (Int, String, Bool, Unit) or to an alias,
// optionally applied to arguments: List[Int]
type TypeName struct {
	Range
	Name string
	Args []TypeExpr
}

func (t *TypeName) Hash() uint64 { return hashOf("TypeName", hashString(t.Name), hashAll(t.Args)) }

// TypeVarRef is a lowercase type variable in an annotation, such as a in a -> a
type TypeVarRef struct {
	Range
	Name string
}

func (t *TypeVarRef) Hash() uint64 { return hashOf("TypeVarRef", hashString(t.Name)) }

type FuncType struct {
	Range
	Param, Result TypeExpr
}

func (t *FuncType) Hash() uint64 { return hashOf("FuncType", t.Param.Hash(), t.Result.Hash()) }

type FieldType struct {
	Name string
	Type TypeExpr
}

// RecordType is {a: Int, b: String}, or {a: Int, ..} when Open
type RecordType struct {
	Range
	Fields []FieldType
	Open   bool
}

func (t *RecordType) Hash() uint64 {
	parts := make([]uint64, 0, len(t.Fields)*2+1)
	for _, f := range t.Fields {
		parts = append(parts, hashString(f.Name), f.Type.Hash())
	}
	if t.Open {
		parts = append(parts, 1)
	}
	return hashOf("RecordType", parts...)
}

type TupleType struct {
	Range
	Elems []TypeExpr
}

func (t *TupleType) Hash() uint64 { return hashOf("TupleType", hashAll(t.Elems)) }

type UnionType struct {
	Range
	Alts []TypeExpr
}

func (t *UnionType) Hash() uint64 { return hashOf("UnionType", hashAll(t.Alts)) }

type IntersectionType struct {
	Range
	Members []TypeExpr
}

func (t *IntersectionType) Hash() uint64 { return hashOf("IntersectionType", hashAll(t.Members)) }

// LiteralType is a singleton string type such as "circle"
type LiteralType struct {
	Range
	Value string
}

func (t *LiteralType) Hash() uint64 { return hashOf("LiteralType", hashString(t.Value)) }

func (t *TypeName) typeExprNode()         {}
func (t *TypeVarRef) typeExprNode()       {}
func (t *FuncType) typeExprNode()         {}
func (t *RecordType) typeExprNode()       {}
func (t *TupleType) typeExprNode()        {}
func (t *UnionType) typeExprNode()        {}
func (t *IntersectionType) typeExprNode() {}
func (t *LiteralType) typeExprNode()      {}
