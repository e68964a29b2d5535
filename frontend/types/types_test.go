package types_test

import (
	"testing"

	"github.com/cottand/shapecheck/frontend/types"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	f          *types.Fresher
	a, b, c, r *types.Var
}

func newFixture() fixture {
	f := types.NewFresher()
	return fixture{f: f, a: f.Fresh(0), b: f.Fresh(0), c: f.Fresh(0), r: f.Fresh(0)}
}

func (fx fixture) sampleTypes() []types.Type {
	return []types.Type{
		types.Int,
		types.Literal{Value: "circle"},
		fx.a,
		types.NewFunc(fx.a, types.NewFunc(fx.b, fx.c)),
		types.NewRecord(map[string]types.Type{"x": fx.a, "y": types.String}, fx.r),
		types.NewRecord(map[string]types.Type{"x": fx.b}, nil),
		types.NewTuple(fx.a, types.Bool, fx.c),
		types.MustUnion(types.Literal{Value: "a"}, fx.b),
		types.NewAlias("List", fx.a),
		types.NewRecursive(fx.f.Fresh(0), types.NewRecord(map[string]types.Type{"head": fx.a}, nil)),
	}
}

func TestSubstitutionIdentity(t *testing.T) {
	fx := newFixture()
	for _, typ := range fx.sampleTypes() {
		t.Run(typ.String(), func(t *testing.T) {
			assert.True(t, types.Equivalent(typ, types.EmptySubst().Apply(typ)))
			assert.True(t, types.Equivalent(typ, types.Subst{}.Apply(typ)))
		})
	}
}

func TestCompositionLaw(t *testing.T) {
	fx := newFixture()
	rest := fx.f.Fresh(0)
	s2 := types.EmptySubst().
		Bind(fx.a, types.NewFunc(fx.b, types.Int)).
		Bind(fx.r, types.NewRecord(map[string]types.Type{"z": fx.c}, rest))
	s1 := types.EmptySubst().
		Bind(fx.b, types.String).
		Bind(fx.c, types.Literal{Value: "k"}).
		Bind(rest, types.NewRecord(map[string]types.Type{"w": fx.b}, nil))

	composed := s1.Compose(s2)
	for _, typ := range fx.sampleTypes() {
		t.Run(typ.String(), func(t *testing.T) {
			expected := s1.Apply(s2.Apply(typ))
			actual := composed.Apply(typ)
			assert.Truef(t, types.Equivalent(expected, actual), "expected %s, got %s\n%s", expected, actual, spew.Sdump(composed.String()))
		})
	}
}

func TestSubstNeverBindsToItself(t *testing.T) {
	fx := newFixture()
	s := types.Singleton(fx.a, types.Int).Bind(fx.a, fx.a)
	assert.Equal(t, 0, s.Len())

	composed := types.Singleton(fx.b, fx.a).Compose(types.Singleton(fx.a, fx.b))
	_, bound := composed.Lookup(fx.a)
	assert.False(t, bound)
	assert.Equal(t, []*types.Var{fx.b}, composed.Domain())
}

func TestApplyRows(t *testing.T) {
	fx := newFixture()
	open := types.NewRecord(map[string]types.Type{"a": fx.a}, fx.r)

	t.Run("row bound to record is spliced", func(t *testing.T) {
		tail := fx.f.Fresh(0)
		s := types.Singleton(fx.r, types.NewRecord(map[string]types.Type{"b": types.Int}, tail))
		applied := s.Apply(open).(*types.Record)
		assert.Equal(t, []string{"a", "b"}, applied.FieldNames())
		assert.Equal(t, tail, applied.Row)
	})

	t.Run("row bound to variable is renamed", func(t *testing.T) {
		s := types.Singleton(fx.r, fx.c)
		assert.Equal(t, fx.c, s.Apply(open).(*types.Record).Row)
	})

	t.Run("row bound to closed record closes", func(t *testing.T) {
		s := types.Singleton(fx.r, types.NewRecord(nil, nil))
		assert.False(t, s.Apply(open).(*types.Record).IsOpen())
	})
}

func TestUnionNormalisation(t *testing.T) {
	fx := newFixture()
	a, b, c := types.Literal{Value: "a"}, types.Literal{Value: "b"}, types.Literal{Value: "c"}

	t.Run("nested unions flatten", func(t *testing.T) {
		u := types.MustUnion(a, types.MustUnion(b, c))
		require.IsType(t, &types.Union{}, u)
		assert.Len(t, u.(*types.Union).Alts, 3)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		assert.Equal(t, types.Type(a), types.MustUnion(a, a))
		u := types.MustUnion(fx.a, types.Int, fx.a, types.Int)
		assert.Len(t, u.(*types.Union).Alts, 2)
	})

	t.Run("idempotent", func(t *testing.T) {
		u := types.MustUnion(a, b, c)
		again := types.MustUnion(u.(*types.Union).Alts...)
		assert.True(t, types.Equivalent(u, again))
		assert.Equal(t, u.Hash(), types.MustUnion(c, b, a).Hash())
	})

	t.Run("empty is an error", func(t *testing.T) {
		_, err := types.NewUnion()
		assert.ErrorIs(t, err, types.ErrEmptyUnion)
		_, err = types.NewIntersection()
		assert.ErrorIs(t, err, types.ErrEmptyIntersection)
	})

	t.Run("intersections flatten", func(t *testing.T) {
		r1 := types.NewRecord(map[string]types.Type{"x": types.Int}, nil)
		r2 := types.NewRecord(map[string]types.Type{"y": types.Int}, nil)
		i := types.MustIntersection(r1, types.MustIntersection(r2, r1))
		assert.Len(t, i.(*types.Intersection).Members, 2)
	})
}

func TestEquivalent(t *testing.T) {
	fx := newFixture()
	assert.True(t, types.Equivalent(
		types.MustUnion(types.Int, types.String),
		types.MustUnion(types.String, types.Int),
	))
	assert.False(t, types.Equivalent(fx.a, fx.b))
	assert.False(t, types.Equivalent(
		types.NewRecord(map[string]types.Type{"x": types.Int}, nil),
		types.NewRecord(map[string]types.Type{"x": types.Int}, fx.r),
	))

	b1, b2 := fx.f.Fresh(0), fx.f.Fresh(0)
	list := func(binder *types.Var) types.Type {
		return types.NewRecursive(binder, types.NewRecord(map[string]types.Type{"head": types.Int, "tail": binder}, nil))
	}
	assert.True(t, types.Equivalent(list(b1), list(b2)), "recursive types are equal up to binder renaming")
}

func TestString(t *testing.T) {
	fx := newFixture()
	tests := []struct {
		typ      types.Type
		expected string
	}{
		{types.NewFunc(types.NewFunc(types.Int, types.Int), types.Int), "(Int -> Int) -> Int"},
		{types.NewFunc(types.Int, types.NewFunc(types.Int, types.Int)), "Int -> Int -> Int"},
		{types.NewRecord(map[string]types.Type{"b": types.Int, "a": types.Int}, fx.r), "{a: Int, b: Int | ρ4}"},
		{types.NewRecord(nil, nil), "{}"},
		{types.NewTuple(types.Int, types.String), "(Int, String)"},
		{types.MustUnion(types.Literal{Value: "a"}, types.NewFunc(types.Int, types.Int)), `"a" | (Int -> Int)`},
		{types.NewAlias("List", types.Int), "List[Int]"},
		{types.Curried(nil, types.Int), "Unit -> Int"},
		{types.Curried([]types.Type{types.Int, types.Bool}, types.String), "Int -> Bool -> String"},
	}
	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.typ.String())
		})
	}
}

func TestUnfold(t *testing.T) {
	f := types.NewFresher()
	binder := f.Fresh(0)
	list := types.NewRecursive(binder, types.NewRecord(map[string]types.Type{"head": types.Int, "tail": binder}, nil))
	unfolded := list.Unfold().(*types.Record)
	tail, ok := unfolded.Field("tail")
	require.True(t, ok)
	assert.True(t, types.Equivalent(list, tail))
	assert.True(t, types.FreeVars(list).Empty())
}

func TestOccurs(t *testing.T) {
	fx := newFixture()
	assert.True(t, types.Occurs(fx.a, types.NewFunc(types.Int, fx.a)))
	assert.True(t, types.Occurs(fx.r, types.NewRecord(nil, fx.r)))
	assert.False(t, types.Occurs(fx.a, types.NewTuple(fx.b, types.Int)))
}

func TestSchemes(t *testing.T) {
	fx := newFixture()
	id := types.Generalize(types.NewFunc(fx.a, fx.a), nil)
	assert.Equal(t, "∀t1. t1 -> t1", id.String())

	inst := id.Instantiate(fx.f, 0).(*types.Func)
	assert.True(t, types.Equivalent(inst.Param, inst.Result))
	assert.False(t, types.Equivalent(inst.Param, fx.a))

	partial := types.Generalize(types.NewFunc(fx.a, fx.b), types.NewVarSet(fx.b))
	assert.Equal(t, []*types.Var{fx.a}, partial.Vars)
	assert.Equal(t, []*types.Var{fx.b}, partial.FreeVars().Slice())
}

func TestFresherIsPerSession(t *testing.T) {
	f1, f2 := types.NewFresher(), types.NewFresher()
	assert.Equal(t, 1, f1.Fresh(0).ID)
	assert.Equal(t, 2, f1.Fresh(0).ID)
	assert.Equal(t, 1, f2.Fresh(0).ID)
	assert.Equal(t, 2, f1.Count())
}
