package frontend

import (
	"github.com/cottand/shapecheck/frontend/env"
	"github.com/cottand/shapecheck/frontend/types"
)

// Prelude is the environment programs are checked in by default. Its
// quantified variables are drawn from f, which should be the fresher of
// the session it is used in.
func Prelude(f *types.Fresher) env.Env {
	forall := func(body func(a *types.Var) types.Type) types.Scheme {
		a := f.Fresh(0)
		return types.Scheme{Vars: []*types.Var{a}, Body: body(a)}
	}
	return env.Empty().
		Bind("print", forall(func(a *types.Var) types.Type { return types.NewFunc(a, types.Unit) })).
		Bind("show", forall(func(a *types.Var) types.Type { return types.NewFunc(a, types.String) })).
		Bind("identity", forall(func(a *types.Var) types.Type { return types.NewFunc(a, a) })).
		BindMono("length", types.NewFunc(types.String, types.Int)).
		BindMono("not", types.NewFunc(types.Bool, types.Bool))
}
