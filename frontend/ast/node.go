package ast

// Node is the base interface for all AST nodes.
type Node interface {
	Positioner
	// Hash is structural: two nodes with the same shape at different
	// positions hash the same
	Hash() uint64
}

// Expr is the interface for all expression nodes in the AST.
type Expr interface {
	Node
	ExprName() string
	Describe() string
	exprNode() // Marker method to distinguish expressions
}

// Pattern is the left-hand side of a match case.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is a type annotation as written in the source.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Decl is a top-level declaration of a Program.
type Decl interface {
	Node
	declNode()
}

func hashNode(n Node) uint64 {
	if n == nil {
		return 0
	}
	return n.Hash()
}

func hashAll[N Node](nodes []N) uint64 {
	parts := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.Hash())
	}
	return hashOf("list", parts...)
}
