package alias_test

import (
	"testing"

	"github.com/cottand/shapecheck/frontend/alias"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(n string, args ...ast.TypeExpr) *ast.TypeName {
	return &ast.TypeName{Name: n, Args: args}
}

func tvar(n string) *ast.TypeVarRef { return &ast.TypeVarRef{Name: n} }

func record(fields ...ast.FieldType) *ast.RecordType {
	return &ast.RecordType{Fields: fields}
}

func decl(n string, params []string, body ast.TypeExpr) *ast.TypeAliasDecl {
	return &ast.TypeAliasDecl{Range: ast.At(1, 1), Name: n, Params: params, Body: body}
}

func listDecl() *ast.TypeAliasDecl {
	return decl("List", []string{"a"}, record(
		ast.FieldType{Name: "head", Type: tvar("a")},
		ast.FieldType{Name: "tail", Type: name("List", tvar("a"))},
	))
}

func TestDirectCycleIsRejected(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(decl("A", nil, name("B"))))

	err := r.DefineDecl(decl("B", nil, name("A")))
	require.NotNil(t, err)
	assert.Equal(t, ilerr.CircularTypeDefinitionCode, err.Code())
	circular := err.(ilerr.NewCircularTypeDefinition)
	assert.Equal(t, "B", circular.Name)
	assert.Equal(t, []string{"B", "A", "B"}, circular.Cycle)

	_, defined := r.Lookup("B")
	assert.False(t, defined, "a rejected alias is not registered")
}

func TestSelfReferenceIsRejected(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	err := r.DefineDecl(decl("Loop", nil, &ast.IntersectionType{Members: []ast.TypeExpr{name("Loop"), name("Int")}}))
	require.NotNil(t, err)
	assert.Equal(t, ilerr.CircularTypeDefinitionCode, err.Code())
}

func TestStructuralRecursionIsAccepted(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(listDecl()))

	tree := decl("Tree", nil, &ast.UnionType{Alts: []ast.TypeExpr{
		&ast.LiteralType{Value: "leaf"},
		record(ast.FieldType{Name: "left", Type: name("Tree")}, ast.FieldType{Name: "right", Type: name("Tree")}),
	}})
	require.Nil(t, r.DefineDecl(tree))
	assert.Equal(t, []string{"List", "Tree"}, r.Names())
}

func TestCycleThroughParameterIsRejected(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(decl("Id", []string{"a"}, tvar("a"))))
	err := r.DefineDecl(decl("Knot", nil, name("Id", name("Knot"))))
	require.NotNil(t, err)
	assert.Equal(t, ilerr.CircularTypeDefinitionCode, err.Code())
}

func TestDuplicateDefinitions(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(decl("Point", nil, record(ast.FieldType{Name: "x", Type: name("Int")}))))

	for _, n := range []string{"Point", "Int", "Bool"} {
		err := r.DefineDecl(decl(n, nil, name("String")))
		require.NotNil(t, err, n)
		assert.Equal(t, ilerr.DuplicateDefinitionCode, err.Code(), n)
	}
}

func TestExpand(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(decl("Pair", []string{"a", "b"}, &ast.TupleType{Elems: []ast.TypeExpr{tvar("a"), tvar("b")}})))

	expanded, ok := r.Expand(types.NewAlias("Pair", types.Int, types.String))
	require.True(t, ok)
	assert.Equal(t, "(Int, String)", expanded.String())

	_, ok = r.Expand(types.NewAlias("Pair", types.Int))
	assert.False(t, ok, "wrong arity does not expand")
	_, ok = r.Expand(types.NewAlias("Missing"))
	assert.False(t, ok)
}

func TestNormalizeRecursiveAlias(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(listDecl()))

	normalised := r.Normalize(types.NewAlias("List", types.Int))
	mu, ok := normalised.(*types.Recursive)
	require.True(t, ok, "got %v", normalised)
	body, ok := mu.Body.(*types.Record)
	require.True(t, ok)
	head, _ := body.Field("head")
	assert.Equal(t, types.Type(types.Int), head)
	tail, _ := body.Field("tail")
	assert.Equal(t, types.Type(mu.Binder), tail)

	again := r.Normalize(types.NewAlias("List", types.Int))
	assert.Same(t, normalised, again, "normalisation is memoised")
}

func TestDefineClearsCache(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(decl("Name", nil, name("String"))))
	require.Nil(t, r.DefineDecl(decl("Person", nil, record(ast.FieldType{Name: "name", Type: name("Name")}))))
	first := r.Normalize(types.NewAlias("Person"))
	assert.Equal(t, "{name: String}", first.String())

	require.Nil(t, r.DefineDecl(decl("Other", nil, name("Int"))))
	second := r.Normalize(types.NewAlias("Person"))
	assert.NotSame(t, first, second)
	assert.True(t, types.Equivalent(first, second))
}

func TestNormalizeKeepsUnknownAliases(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	ref := types.NewAlias("Later", types.Int)
	assert.Equal(t, "Later[Int]", r.Normalize(ref).String())
}

func TestResolve(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	require.Nil(t, r.DefineDecl(listDecl()))

	tests := []struct {
		name     string
		expr     ast.TypeExpr
		expected string
		code     ilerr.ErrCode
	}{
		{"primitive", name("Int"), "Int", ilerr.None},
		{"alias", name("List", name("Bool")), "List[Bool]", ilerr.None},
		{"function", &ast.FuncType{Param: name("Int"), Result: name("String")}, "Int -> String", ilerr.None},
		{"literal union", &ast.UnionType{Alts: []ast.TypeExpr{&ast.LiteralType{Value: "a"}, &ast.LiteralType{Value: "b"}}}, `"a" | "b"`, ilerr.None},
		{"unknown alias", name("Nope"), "", ilerr.UndefinedConstructorCode},
		{"arity", name("List"), "", ilerr.InvalidAnnotationCode},
		{"primitive with args", name("Int", name("Int")), "", ilerr.InvalidAnnotationCode},
		{"empty union", &ast.UnionType{}, "", ilerr.InvalidAnnotationCode},
		{"duplicate field", record(ast.FieldType{Name: "x", Type: name("Int")}, ast.FieldType{Name: "x", Type: name("Int")}), "", ilerr.InvalidAnnotationCode},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resolved, err := r.Resolve(test.expr, alias.NewScope(0))
			if test.code != ilerr.None {
				require.NotNil(t, err)
				assert.Equal(t, test.code, err.Code())
				return
			}
			require.Nil(t, err)
			assert.Equal(t, test.expected, resolved.String())
		})
	}
}

func TestResolveTypeVariables(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	resolved, err := r.Resolve(&ast.FuncType{Param: tvar("a"), Result: tvar("a")}, alias.NewScope(0))
	require.Nil(t, err)
	fn := resolved.(*types.Func)
	assert.Same(t, fn.Param, fn.Result, "a names the same variable throughout an annotation")

	rigid := alias.NewScope(0)
	rigid.Rigid = true
	_, err = r.Resolve(tvar("b"), rigid)
	require.NotNil(t, err)
	assert.Equal(t, ilerr.UndefinedTypeVariableCode, err.Code())

	err = r.DefineDecl(decl("Bad", []string{"a"}, tvar("b")))
	require.NotNil(t, err)
	assert.Equal(t, ilerr.UndefinedTypeVariableCode, err.Code())
}

func TestResolveOpenRecord(t *testing.T) {
	r := alias.NewRegistry(types.NewFresher())
	resolved, err := r.Resolve(&ast.RecordType{Fields: []ast.FieldType{{Name: "x", Type: name("Int")}}, Open: true}, alias.NewScope(0))
	require.Nil(t, err)
	rec := resolved.(*types.Record)
	assert.True(t, rec.IsOpen())
}
