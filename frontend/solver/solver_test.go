package solver_test

import (
	"testing"

	"github.com/cottand/shapecheck/frontend/alias"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/constraint"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/solver"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var here = ast.At(3, 7)

type fixture struct {
	fresher  *types.Fresher
	registry *alias.Registry
	solver   *solver.Solver
}

func newFixture() *fixture {
	f := types.NewFresher()
	registry := alias.NewRegistry(f)
	return &fixture{fresher: f, registry: registry, solver: solver.New(f, registry, solver.DefaultConfig())}
}

func (fx *fixture) fresh() *types.Var { return fx.fresher.Fresh(1) }

func record(fields map[string]types.Type) *types.Record { return types.NewRecord(fields, nil) }

func lit(s string) types.Type { return types.Literal{Value: s} }

func eq(a, b types.Type) constraint.Constraint {
	return constraint.NewEqual(a, b, constraint.OriginInference, here)
}

func TestUnify(t *testing.T) {
	fx := newFixture()
	a, b := fx.fresh(), fx.fresh()
	tests := []struct {
		name  string
		left  types.Type
		right types.Type
		check func(t *testing.T, s types.Subst)
	}{
		{
			name:  "variable with primitive",
			left:  a,
			right: types.Int,
			check: func(t *testing.T, s types.Subst) { assert.Equal(t, types.Type(types.Int), s.Apply(a)) },
		},
		{
			name:  "functions",
			left:  types.NewFunc(a, types.Bool),
			right: types.NewFunc(types.String, b),
			check: func(t *testing.T, s types.Subst) {
				assert.Equal(t, "String -> Bool", s.Apply(types.NewFunc(a, b)).String())
			},
		},
		{
			name:  "literal widens to String",
			left:  lit("hi"),
			right: types.String,
			check: func(t *testing.T, s types.Subst) { assert.True(t, s.IsEmpty()) },
		},
		{
			name:  "union absorbs an alternative",
			left:  types.Int,
			right: types.MustUnion(types.String, types.Int),
			check: func(t *testing.T, s types.Subst) { assert.True(t, s.IsEmpty()) },
		},
		{
			name:  "tuples",
			left:  types.NewTuple(a, types.Int),
			right: types.NewTuple(types.Bool, types.Int),
			check: func(t *testing.T, s types.Subst) { assert.Equal(t, types.Type(types.Bool), s.Apply(a)) },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := fx.solver.Unify(test.left, test.right, here)
			require.NoError(t, err)
			test.check(t, s)
		})
	}
}

func TestUnifyFailures(t *testing.T) {
	fx := newFixture()
	a := fx.fresh()
	tests := []struct {
		name  string
		left  types.Type
		right types.Type
		code  ilerr.ErrCode
	}{
		{"primitives", types.Int, types.String, ilerr.TypeMismatchCode},
		{"occurs check", a, types.NewFunc(a, types.Int), ilerr.OccursCheckCode},
		{"tuple sizes", types.NewTuple(types.Int), types.NewTuple(types.Int, types.Int), ilerr.TypeMismatchCode},
		{"no alternative", types.Bool, types.MustUnion(types.Int, types.String), ilerr.UnionFailureCode},
		{
			"closed records",
			record(map[string]types.Type{"a": types.Int}),
			record(map[string]types.Type{"b": types.Int}),
			ilerr.RecordFieldMismatchCode,
		},
		{"distinct literals", lit("a"), lit("b"), ilerr.TypeMismatchCode},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := fx.solver.Unify(test.left, test.right, here)
			require.Error(t, err)
			assert.Equal(t, test.code, err.Code())
			assert.Equal(t, here.Pos(), ilerr.Location(err))
		})
	}
}

func TestUnifyRecordFieldMismatch(t *testing.T) {
	tests := []struct {
		name     string
		found    types.Type
		expected func(fx *fixture) types.Type
		missing  []string
		extra    []string
	}{
		{
			name:     "closed records",
			found:    record(map[string]types.Type{"a": types.Int, "c": types.Int}),
			expected: func(*fixture) types.Type { return record(map[string]types.Type{"b": types.Int, "c": types.Int}) },
			missing:  []string{"b"},
			extra:    []string{"a"},
		},
		{
			name:  "open expectation accepts extra fields",
			found: record(map[string]types.Type{"a": types.Int}),
			expected: func(fx *fixture) types.Type {
				return types.NewRecord(map[string]types.Type{"b": fx.fresh()}, fx.fresh())
			},
			missing: []string{"b"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fx := newFixture()
			_, err := fx.solver.Unify(test.found, test.expected(fx), here)
			require.Error(t, err)
			require.Equal(t, ilerr.RecordFieldMismatchCode, err.Code())
			fields := err.Fields()
			assert.Equal(t, test.found.String(), fields["found"])
			assert.Equal(t, test.missing, fields["missing"])
			if test.extra == nil {
				assert.Empty(t, fields["extra"])
			} else {
				assert.Equal(t, test.extra, fields["extra"])
			}
		})
	}
}

func TestUnifyRows(t *testing.T) {
	fx := newFixture()
	rowA, rowB := fx.fresh(), fx.fresh()
	open := types.NewRecord(map[string]types.Type{"x": types.Int}, rowA)
	closed := record(map[string]types.Type{"x": types.Int, "y": types.String})

	s, err := fx.solver.Unify(open, closed, here)
	require.NoError(t, err)
	assert.Equal(t, "{x: Int, y: String}", s.Apply(open).String())

	other := types.NewRecord(map[string]types.Type{"y": types.Bool}, rowB)
	s, err = fx.solver.Unify(open, other, here)
	require.NoError(t, err, spew.Sdump(s))
	left, right := s.Apply(open), s.Apply(other)
	assert.True(t, types.Equivalent(left, right), "%s vs %s", left, right)
	assert.Equal(t, []string{"x", "y"}, left.(*types.Record).FieldNames())
	assert.True(t, left.(*types.Record).IsOpen())
}

func TestSubtype(t *testing.T) {
	fx := newFixture()
	point := record(map[string]types.Type{"x": types.Int, "y": types.Int})
	onlyX := record(map[string]types.Type{"x": types.Int})

	tests := []struct {
		name  string
		sub   types.Type
		super types.Type
		code  ilerr.ErrCode
	}{
		{"wider record", point, onlyX, ilerr.None},
		{"narrower record", onlyX, point, ilerr.SubtypeFailureCode},
		{"literal below String", lit("a"), types.String, ilerr.None},
		{"member of union", types.Int, types.MustUnion(types.Int, types.String), ilerr.None},
		{"union below wider union", types.MustUnion(lit("a"), lit("b")), types.MustUnion(lit("a"), lit("b"), lit("c")), ilerr.None},
		{"union not below member", types.MustUnion(types.Int, types.String), types.Int, ilerr.SubtypeFailureCode},
		{"functions are contravariant", types.NewFunc(onlyX, types.Int), types.NewFunc(point, types.Int), ilerr.None},
		{"functions reject covariant parameter", types.NewFunc(point, types.Int), types.NewFunc(onlyX, types.Int), ilerr.SubtypeFailureCode},
		{"intersection member", types.MustIntersection(onlyX, record(map[string]types.Type{"y": types.Int})), onlyX, ilerr.None},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := fx.solver.Subtype(test.sub, test.super, here)
			if test.code == ilerr.None {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, test.code, err.Code())
		})
	}
}

func TestSubtypeGrowsOpenRecord(t *testing.T) {
	fx := newFixture()
	row := fx.fresh()
	sub := types.NewRecord(map[string]types.Type{"x": types.Int}, row)
	super := record(map[string]types.Type{"x": types.Int, "name": types.String})

	s, err := fx.solver.Subtype(sub, super, here)
	require.NoError(t, err)
	grown := s.Apply(sub).(*types.Record)
	assert.Equal(t, []string{"name", "x"}, grown.FieldNames())
	assert.True(t, grown.IsOpen())
}

func TestSolveMerge(t *testing.T) {
	fx := newFixture()
	result := fx.fresh()
	cs := constraint.NewSet(constraint.NewMerge(
		result,
		[]types.Type{record(map[string]types.Type{"a": types.Int})},
		record(map[string]types.Type{"b": types.Int}),
		here,
	))
	s, err := fx.solver.Solve(cs)
	require.NoError(t, err)
	merged := s.Apply(result)
	assert.Regexp(t, `^\{a: Int, b: Int \| ρ\d+\}$`, merged.String())
}

func TestSolveMergeConflict(t *testing.T) {
	fx := newFixture()
	cs := constraint.NewSet(constraint.NewMerge(
		fx.fresh(),
		[]types.Type{
			record(map[string]types.Type{"a": types.Int}),
			record(map[string]types.Type{"a": types.String}),
		},
		nil,
		here,
	))
	_, err := fx.solver.Solve(cs)
	require.Error(t, err)
	assert.Equal(t, ilerr.MergeConflictCode, err.Code())
	assert.Equal(t, "a", err.Fields()["field"])
}

func TestSolveThreadsSubstitution(t *testing.T) {
	fx := newFixture()
	a, b, c := fx.fresh(), fx.fresh(), fx.fresh()
	cs := constraint.NewSet(
		eq(a, types.NewFunc(b, c)),
		eq(b, types.Int),
		eq(c, types.Bool),
	)
	s, err := fx.solver.Solve(cs)
	require.NoError(t, err)
	assert.Equal(t, "Int -> Bool", s.Apply(a).String())
}

func TestSolveStopsAtFirstFailure(t *testing.T) {
	fx := newFixture()
	a := fx.fresh()
	cs := constraint.NewSet(eq(a, types.Int), eq(a, types.String))
	_, err := fx.solver.Solve(cs)
	require.Error(t, err)
	assert.Equal(t, ilerr.TypeMismatchCode, err.Code())
}

func TestSolveRecordShape(t *testing.T) {
	fx := newFixture()
	a := fx.fresh()
	s, err := fx.solver.Solve(constraint.NewSet(constraint.NewRecordShape(a, constraint.OriginInference, here)))
	require.NoError(t, err)
	shaped, ok := s.Apply(a).(*types.Record)
	require.True(t, ok)
	assert.True(t, shaped.IsOpen())

	_, err = fx.solver.Solve(constraint.NewSet(constraint.NewRecordShape(types.Int, constraint.OriginInference, here)))
	require.Error(t, err)
	assert.Equal(t, ilerr.TypeMismatchCode, err.Code())
}

func TestSolveInstance(t *testing.T) {
	fx := newFixture()
	tests := []struct {
		name  string
		t     types.Type
		class string
		ok    bool
	}{
		{"anything is printable", types.NewFunc(types.Int, types.Int), constraint.Printable, true},
		{"ints compare", types.Int, constraint.Comparable, true},
		{"literals compare", types.MustUnion(lit("a"), lit("b")), constraint.Comparable, true},
		{"unknowns compare", fx.fresh(), constraint.Comparable, true},
		{"functions do not compare", types.NewFunc(types.Int, types.Int), constraint.Comparable, false},
		{"records of comparable fields compare", record(map[string]types.Type{"a": types.Int, "k": lit("x")}), constraint.Comparable, true},
		{"tuples of comparable elements compare", types.NewTuple(types.Int, types.String), constraint.Comparable, true},
		{
			"records holding functions do not compare",
			record(map[string]types.Type{"f": types.NewFunc(types.Int, types.Int)}),
			constraint.Comparable,
			false,
		},
		{"tuples holding functions do not compare", types.NewTuple(types.Int, types.NewFunc(types.Int, types.Int)), constraint.Comparable, false},
		{"unknown class", types.Int, "Hashable", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := fx.solver.Solve(constraint.NewSet(constraint.NewInstance(test.t, test.class, here)))
			if test.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, ilerr.TypeClassFailureCode, err.Code())
		})
	}
}

func TestSolveExhaustive(t *testing.T) {
	fx := newFixture()
	scrutinee := fx.fresh()
	truePattern := &ast.LiteralPattern{Kind: ast.BoolLiteral, Value: "true"}
	cs := constraint.NewSet(
		eq(scrutinee, types.Bool),
		constraint.NewExhaustive(scrutinee, []ast.Pattern{truePattern}, here),
	)
	_, err := fx.solver.Solve(cs)
	require.Error(t, err)
	require.Equal(t, ilerr.NonExhaustiveCode, err.Code())
	assert.Equal(t, []string{"False"}, err.Fields()["missing"])

	ints := constraint.NewSet(constraint.NewExhaustive(types.Int, []ast.Pattern{truePattern}, here))
	_, err = fx.solver.Solve(ints)
	assert.NoError(t, err, "unbounded types are not checked")
}

func TestSolveUnionCompat(t *testing.T) {
	t.Run("literal patterns join into a union", func(t *testing.T) {
		fx := newFixture()
		scrutinee := fx.fresh()
		cs := constraint.NewSet(constraint.NewUnionCompat(scrutinee, []types.Type{lit("a"), lit("b")}, here))
		s, err := fx.solver.Solve(cs)
		require.NoError(t, err)
		assert.Equal(t, `"a" | "b"`, s.Apply(scrutinee).String())
	})
	t.Run("tagged records form a discriminated union", func(t *testing.T) {
		fx := newFixture()
		scrutinee := fx.fresh()
		circle := types.NewRecord(map[string]types.Type{"kind": lit("circle"), "radius": fx.fresh()}, fx.fresh())
		square := types.NewRecord(map[string]types.Type{"kind": lit("square"), "side": fx.fresh()}, fx.fresh())
		s, err := fx.solver.Solve(constraint.NewSet(constraint.NewUnionCompat(scrutinee, []types.Type{circle, square}, here)))
		require.NoError(t, err)
		union, ok := s.Apply(scrutinee).(*types.Union)
		require.True(t, ok)
		assert.Len(t, union.Alts, 2)
	})
	t.Run("union scrutinee needs an alternative per pattern", func(t *testing.T) {
		fx := newFixture()
		scrutinee := types.MustUnion(lit("a"), lit("b"))
		_, err := fx.solver.Solve(constraint.NewSet(constraint.NewUnionCompat(scrutinee, []types.Type{lit("a")}, here)))
		assert.NoError(t, err)
		_, err = fx.solver.Solve(constraint.NewSet(constraint.NewUnionCompat(scrutinee, []types.Type{lit("z")}, here)))
		require.Error(t, err)
		assert.Equal(t, ilerr.UnionFailureCode, err.Code())
	})
	t.Run("String scrutinee accepts literal patterns", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.solver.Solve(constraint.NewSet(constraint.NewUnionCompat(types.String, []types.Type{lit("a"), lit("b")}, here)))
		assert.NoError(t, err)
	})
}

func TestSolveBranch(t *testing.T) {
	branch := func(result types.Type, branches ...types.Type) constraint.Constraint {
		return constraint.NewBranch(result, branches, here)
	}
	t.Run("equal branches", func(t *testing.T) {
		fx := newFixture()
		result := fx.fresh()
		s, err := fx.solver.Solve(constraint.NewSet(branch(result, types.Int, types.Int)))
		require.NoError(t, err)
		assert.Equal(t, types.Type(types.Int), s.Apply(result))
	})
	t.Run("tagged records form a union", func(t *testing.T) {
		fx := newFixture()
		result := fx.fresh()
		x := record(map[string]types.Type{"name": lit("x")})
		y := record(map[string]types.Type{"name": lit("y")})
		z := record(map[string]types.Type{"name": lit("z")})
		s, err := fx.solver.Solve(constraint.NewSet(branch(result, x, y, z, x)))
		require.NoError(t, err)
		assert.Equal(t, `{name: "x"} | {name: "y"} | {name: "z"}`, s.Apply(result).String())
	})
	t.Run("different literals widen to String", func(t *testing.T) {
		fx := newFixture()
		result := fx.fresh()
		s, err := fx.solver.Solve(constraint.NewSet(branch(result, lit("a"), lit("b"))))
		require.NoError(t, err)
		assert.Equal(t, types.Type(types.String), s.Apply(result))
	})
	t.Run("a variable branch takes the type of the others", func(t *testing.T) {
		fx := newFixture()
		result, other := fx.fresh(), fx.fresh()
		s, err := fx.solver.Solve(constraint.NewSet(branch(result, types.Int, other)))
		require.NoError(t, err)
		assert.Equal(t, types.Type(types.Int), s.Apply(other))
	})
	t.Run("untagged branches must agree", func(t *testing.T) {
		fx := newFixture()
		_, err := fx.solver.Solve(constraint.NewSet(branch(fx.fresh(), types.Int, types.String)))
		require.Error(t, err)
		assert.Equal(t, ilerr.TypeMismatchCode, err.Code())

		tagged := record(map[string]types.Type{"kind": lit("a")})
		_, err = fx.solver.Solve(constraint.NewSet(branch(fx.fresh(), tagged, record(map[string]types.Type{"kind": lit("b")}), types.Int)))
		require.Error(t, err)
		assert.Equal(t, ilerr.TypeMismatchCode, err.Code())
	})
	t.Run("every branch must fit a result already in use", func(t *testing.T) {
		fx := newFixture()
		result, other := fx.fresh(), fx.fresh()
		s, err := fx.solver.Solve(constraint.NewSet(eq(result, types.Int), branch(result, types.Int, other)))
		require.NoError(t, err)
		assert.Equal(t, types.Type(types.Int), s.Apply(other))

		_, err = fx.solver.Solve(constraint.NewSet(eq(result, types.Int), branch(result, types.Int, types.String)))
		require.Error(t, err)
		assert.Equal(t, ilerr.TypeMismatchCode, err.Code())
	})
}

func TestRecursiveAliasesTerminate(t *testing.T) {
	fx := newFixture()
	elem := fx.fresher.Fresh(0)
	list := alias.Definition{
		Name:   "List",
		Params: []*types.Var{elem},
		Body: types.MustUnion(
			lit("nil"),
			record(map[string]types.Type{"head": elem, "tail": types.NewAlias("List", elem)}),
		),
	}
	require.NoError(t, fx.registry.Define(list))

	ints := types.NewAlias("List", types.Int)
	unrolled := types.MustUnion(lit("nil"), record(map[string]types.Type{"head": types.Int, "tail": ints}))
	_, err := fx.solver.Unify(ints, unrolled, here)
	assert.NoError(t, err)

	_, err = fx.solver.Unify(fx.registry.Normalize(ints), ints, here)
	assert.NoError(t, err)

	_, err = fx.solver.Unify(ints, types.NewAlias("List", types.String), here)
	assert.Error(t, err)
}

func TestUnifyUndefinedAlias(t *testing.T) {
	fx := newFixture()
	_, err := fx.solver.Unify(types.NewAlias("Missing"), types.Int, here)
	require.Error(t, err)
	assert.Equal(t, ilerr.UndefinedConstructorCode, err.Code())
}
