package frontend_test

import (
	"testing"

	"github.com/cottand/shapecheck/frontend"
	"github.com/cottand/shapecheck/frontend/ast"
	. "github.com/cottand/shapecheck/frontend/construct"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(t *testing.T, err error) ilerr.ErrCode {
	t.Helper()
	ileErr, ok := err.(ilerr.IleError)
	require.True(t, ok, "expected an IleError, got %T", err)
	return ileErr.Code()
}

func TestTypeCheck(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.Expr
		expected string
	}{
		{"let polymorphism", Let("f", Func1("x", Binary("+", Var("x"), Int(1))), Call(Var("f"), Int(41))), "Int"},
		{"print", Call(Var("print"), Int(1)), "Unit"},
		{"show", Call(Var("show"), Bool(true)), "String"},
		{"length", Call(Var("length"), String("abc")), "Int"},
		{"not", Call(Var("not"), Bool(false)), "Bool"},
		{"identity at two types", Tuple(Call(Var("identity"), Int(1)), Call(Var("identity"), String("a"))), "(Int, String)"},
		{"curried application", Call(Func2("a", "b", Binary("&&", Var("a"), Var("b"))), Bool(true), Bool(false)), "Bool"},
		{
			"match result as an argument",
			Call(Var("length"), Match(Bool(true), Case(PBool(true), String("a")), Case(PBool(false), String("b")))),
			"Int",
		},
		{
			"match result as an operand",
			Binary("+", Match(Bool(true), Case(PBool(true), Int(1)), Case(PWildcard(), Int(2))), Int(1)),
			"Int",
		},
		{
			"if over records with different tags",
			Func1("c", If(Var("c"), Record(Field("name", String("x"))), Record(Field("name", String("y"))))),
			`Bool -> ({name: "x"} | {name: "y"})`,
		},
		{"records compare", Binary("==", Record(Field("a", Int(1))), Record(Field("a", Int(1)))), "Bool"},
		{"tuples compare", Binary("==", Tuple(Int(1), Int(2)), Tuple(Int(1), Int(2))), "Bool"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := frontend.NewChecker(frontend.DefaultConfig())
			success, err := c.TypeCheck(test.expr)
			require.NoError(t, err)
			assert.Equal(t, test.expected, success.Type.String())
			assert.Empty(t, success.Warnings)
		})
	}
}

func TestTypeCheckSpread(t *testing.T) {
	c := frontend.NewChecker(frontend.DefaultConfig())
	success, err := c.TypeCheck(Spread([]ast.Expr{Record(Field("a", Int(1)))}, Field("b", Int(2))))
	require.NoError(t, err)
	assert.Regexp(t, `^\{a: Int, b: Int \| ρ\d+\}$`, success.Type.String())
}

func TestTypeCheckMismatch(t *testing.T) {
	c := frontend.NewChecker(frontend.DefaultConfig())
	_, err := c.TypeCheck(Let("f", Func1("x", Binary("+", Var("x"), Int(1))), Call(Var("f"), String("s"))))
	require.Error(t, err)
	assert.Equal(t, ilerr.TypeMismatchCode, codeOf(t, err))
	assert.Contains(t, err.Error(), "Int")
	assert.Contains(t, err.Error(), "String")
}

func TestTypeCheckRejects(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		code ilerr.ErrCode
	}{
		{
			"match result of mixed types as an operand",
			Binary("+", Match(Bool(true), Case(PBool(true), Int(1)), Case(PBool(false), String("s"))), Int(1)),
			ilerr.TypeMismatchCode,
		},
		{
			"match result of mixed types concatenated",
			Binary("++", Match(Bool(true), Case(PBool(true), String("a")), Case(PBool(false), Int(1))), String("y")),
			ilerr.TypeMismatchCode,
		},
		{
			"match branch decides a parameter",
			Let("f",
				Func1("y", Binary("+", Match(Bool(true), Case(PBool(true), Int(1)), Case(PWildcard(), Var("y"))), Int(1))),
				Call(Var("f"), String("s"))),
			ilerr.TypeMismatchCode,
		},
		{
			"match result as the wrong argument",
			Call(Var("not"), Match(Bool(true), Case(PBool(true), Int(1)), Case(PBool(false), Int(2)))),
			ilerr.TypeMismatchCode,
		},
		{
			"if over records with different fields",
			Func1("c", If(Var("c"), Record(Field("a", Int(1))), Record(Field("b", Int(1))))),
			ilerr.RecordFieldMismatchCode,
		},
		{
			"records of functions compared",
			Binary("==", Record(Field("f", Var("show"))), Record(Field("f", Var("show")))),
			ilerr.TypeClassFailureCode,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := frontend.NewChecker(frontend.DefaultConfig())
			_, err := c.TypeCheck(test.expr)
			require.Error(t, err)
			assert.Equal(t, test.code, codeOf(t, err), err.Error())
		})
	}
}

func TestTypeCheckReportsLocation(t *testing.T) {
	cond := Int(1)
	cond.Range = ast.At(2, 4)
	c := frontend.NewChecker(frontend.DefaultConfig())
	_, err := c.TypeCheck(If(cond, Int(1), Int(2)))
	require.Error(t, err)
	assert.Equal(t, ast.Position{Line: 2, Column: 4}, ilerr.Location(err.(ilerr.IleError)))
}

func TestTypeCheckWithoutPrelude(t *testing.T) {
	config := frontend.DefaultConfig()
	config.WithPrelude = false
	c := frontend.NewChecker(config)
	assert.Zero(t, c.Env().Len())

	_, err := c.TypeCheck(Call(Var("print"), Int(1)))
	require.Error(t, err)
	assert.Equal(t, ilerr.UndefinedVariableCode, codeOf(t, err))
}

func TestPrelude(t *testing.T) {
	f := types.NewFresher()
	prelude := frontend.Prelude(f)
	assert.Equal(t, []string{"identity", "length", "not", "print", "show"}, prelude.Names())
	identity, ok := prelude.Lookup("identity")
	require.True(t, ok)
	assert.Len(t, identity.Vars, 1)
	length, _ := prelude.Lookup("length")
	assert.True(t, length.IsMono())
	assert.True(t, prelude.FreeVars().Empty())

	// later variables of the same session never reuse a quantified id
	next := f.Fresh(0)
	for _, name := range prelude.Names() {
		scheme, _ := prelude.Lookup(name)
		for _, v := range scheme.Vars {
			assert.Less(t, v.ID, next.ID, name)
		}
	}
}

func shapeDecl() *ast.TypeAliasDecl {
	circle := TRecordExpr(TField("kind", TLiteralExpr("circle")), TField("radius", TName("Int")))
	square := TRecordExpr(TField("kind", TLiteralExpr("square")), TField("side", TName("Int")))
	return TypeAlias("Shape", nil, TUnion(circle, square))
}

func TestTypeCheckProgram(t *testing.T) {
	area := &ast.LetDecl{
		Name: "area",
		Value: FuncAnnotated("s", TName("Shape"), Match(Var("s"),
			Case(PRecord(PField("kind", PString("circle")), PField("radius", PVar("r"))), Binary("*", Var("r"), Var("r"))),
			Case(PRecord(PField("kind", PString("square")), PField("side", PVar("x"))), Var("x")),
		)),
	}
	program := Program(
		LetDecl("unit", Record(Field("kind", String("square")), Field("side", Int(1)))),
		area,
		ExprDecl(Call(Var("area"), Var("unit"))),
		// aliases may be used before they are declared
		shapeDecl(),
	)

	c := frontend.NewChecker(frontend.DefaultConfig())
	result := c.TypeCheckProgram(program)
	require.True(t, result.Ok(), result.Errors.Error())
	require.Len(t, result.Decls, 4)
	assert.Equal(t, `{kind: "square", side: Int}`, result.Decls[0].Scheme.String())
	assert.Equal(t, "Shape -> Int", result.Decls[1].Scheme.String())
	assert.Equal(t, "Int", result.Decls[2].Scheme.String())
	assert.Nil(t, result.Decls[3].Err)

	_, ok := result.Env.Lookup("area")
	assert.True(t, ok)
	success, err := c.TypeCheck(Call(Var("area"), Record(Field("kind", String("circle")), Field("radius", Int(2)))))
	require.NoError(t, err)
	assert.Equal(t, types.Int, success.Type)
}

func TestTypeCheckProgramContinuesPastFailures(t *testing.T) {
	program := Program(
		LetDecl("bad", Binary("+", Int(1), String("s"))),
		LetDecl("good", Int(2)),
		ExprDecl(Call(Var("bad"), Var("good"))),
		ExprDecl(Var("missing")),
		ExprDecl(Binary("+", Var("good"), Int(1))),
	)
	c := frontend.NewChecker(frontend.DefaultConfig())
	result := c.TypeCheckProgram(program)
	require.False(t, result.Ok())

	errs := result.Errors.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, ilerr.TypeMismatchCode, errs[0].Code())
	assert.Equal(t, ilerr.UndefinedVariableCode, errs[1].Code())

	require.Len(t, result.Decls, 5)
	assert.Error(t, result.Decls[0].Err)
	assert.Equal(t, "Int", result.Decls[1].Scheme.String())
	// bad is bound to ∀a.a, so it can still be called
	assert.NoError(t, result.Decls[2].Err)
	assert.Equal(t, "Int", result.Decls[4].Scheme.String())
}

func TestTypeCheckProgramAliasErrors(t *testing.T) {
	tests := []struct {
		name  string
		decls []ast.Decl
		code  ilerr.ErrCode
	}{
		{
			"cycle",
			[]ast.Decl{TypeAlias("A", nil, TName("B")), TypeAlias("B", nil, TName("A"))},
			ilerr.CircularTypeDefinitionCode,
		},
		{
			"bare self reference",
			[]ast.Decl{TypeAlias("A", nil, TName("A"))},
			ilerr.CircularTypeDefinitionCode,
		},
		{
			"redefinition",
			[]ast.Decl{TypeAlias("A", nil, TName("Int")), TypeAlias("A", nil, TName("Bool"))},
			ilerr.DuplicateDefinitionCode,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := frontend.NewChecker(frontend.DefaultConfig())
			result := c.TypeCheckProgram(Program(test.decls...))
			errs := result.Errors.Errors()
			require.Len(t, errs, 1)
			assert.Equal(t, test.code, errs[0].Code())
		})
	}
}

func TestTypeCheckProgramWarnings(t *testing.T) {
	program := Program(ExprDecl(Match(Int(1),
		Case(PVar("n"), Var("n")),
		Case(PInt(2), Int(2)),
	)))
	c := frontend.NewChecker(frontend.DefaultConfig())
	result := c.TypeCheckProgram(program)
	assert.True(t, result.Ok())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, ilerr.UnreachablePatternCode, result.Warnings[0].Code())
}
