package alias

import (
	"fmt"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
)

// Scope tracks the type variables named in one annotation or alias
// definition, so that every occurrence of a maps to the same variable
type Scope struct {
	vars  map[string]*types.Var
	level int
	// Rigid rejects type variables that are not already in scope
	Rigid bool
	// Forward allows references to aliases which are not defined yet
	Forward bool
}

func NewScope(level int) *Scope {
	return &Scope{vars: make(map[string]*types.Var), level: level}
}

func (s *Scope) Bind(name string, v *types.Var) {
	s.vars[name] = v
}

// Vars returns the type variables in scope by name
func (s *Scope) Vars() map[string]*types.Var {
	vars := make(map[string]*types.Var, len(s.vars))
	for name, v := range s.vars {
		vars[name] = v
	}
	return vars
}

// Resolve turns a type annotation into a type
func (r *Registry) Resolve(expr ast.TypeExpr, scope *Scope) (types.Type, ilerr.IleError) {
	switch expr := expr.(type) {
	case *ast.TypeName:
		return r.resolveName(expr, scope)
	case *ast.TypeVarRef:
		if v, ok := scope.vars[expr.Name]; ok {
			return v, nil
		}
		if scope.Rigid {
			return nil, ilerr.New(ilerr.NewUndefinedTypeVariable{Positioner: expr, Name: expr.Name})
		}
		v := r.fresher.Fresh(scope.level)
		scope.vars[expr.Name] = v
		return v, nil
	case *ast.FuncType:
		param, err := r.Resolve(expr.Param, scope)
		if err != nil {
			return nil, err
		}
		result, err := r.Resolve(expr.Result, scope)
		if err != nil {
			return nil, err
		}
		return types.NewFunc(param, result), nil
	case *ast.RecordType:
		fields := make(map[string]types.Type, len(expr.Fields))
		for _, f := range expr.Fields {
			if _, dup := fields[f.Name]; dup {
				return nil, ilerr.New(ilerr.NewInvalidAnnotation{
					Positioner: expr,
					Annotation: ast.TypeString(expr),
					Reason:     "field '" + f.Name + "' appears twice",
				})
			}
			t, err := r.Resolve(f.Type, scope)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = t
		}
		var row *types.Var
		if expr.Open {
			row = r.fresher.Fresh(scope.level)
		}
		return types.NewRecord(fields, row), nil
	case *ast.TupleType:
		elems, err := r.resolveAll(expr.Elems, scope)
		if err != nil {
			return nil, err
		}
		return types.NewTuple(elems...), nil
	case *ast.UnionType:
		alts, err := r.resolveAll(expr.Alts, scope)
		if err != nil {
			return nil, err
		}
		union, uErr := types.NewUnion(alts...)
		if uErr != nil {
			return nil, ilerr.New(ilerr.NewInvalidAnnotation{Positioner: expr, Annotation: ast.TypeString(expr), Reason: uErr.Error()})
		}
		return union, nil
	case *ast.IntersectionType:
		members, err := r.resolveAll(expr.Members, scope)
		if err != nil {
			return nil, err
		}
		inter, iErr := types.NewIntersection(members...)
		if iErr != nil {
			return nil, ilerr.New(ilerr.NewInvalidAnnotation{Positioner: expr, Annotation: ast.TypeString(expr), Reason: iErr.Error()})
		}
		return inter, nil
	case *ast.LiteralType:
		return types.Literal{Value: expr.Value}, nil
	case nil:
		return nil, ilerr.Internalf(nil, "resolving a nil annotation")
	default:
		return nil, ilerr.New(ilerr.NewUnimplemented{Positioner: expr, Feature: "annotation " + ast.TypeString(expr)})
	}
}

func (r *Registry) resolveAll(exprs []ast.TypeExpr, scope *Scope) ([]types.Type, ilerr.IleError) {
	resolved := make([]types.Type, 0, len(exprs))
	for _, e := range exprs {
		t, err := r.Resolve(e, scope)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

func (r *Registry) resolveName(expr *ast.TypeName, scope *Scope) (types.Type, ilerr.IleError) {
	if prim, ok := types.PrimitiveNamed(expr.Name); ok {
		if len(expr.Args) != 0 {
			return nil, ilerr.New(ilerr.NewInvalidAnnotation{
				Positioner: expr,
				Annotation: ast.TypeString(expr),
				Reason:     expr.Name + " takes no type arguments",
			})
		}
		return prim, nil
	}
	args, err := r.resolveAll(expr.Args, scope)
	if err != nil {
		return nil, err
	}
	def, ok := r.defs.Get(expr.Name)
	if !ok {
		if scope.Forward {
			return types.NewAlias(expr.Name, args...), nil
		}
		return nil, ilerr.New(ilerr.NewUndefinedConstructor{Positioner: expr, Name: expr.Name})
	}
	if len(def.Params) != len(args) {
		return nil, ilerr.New(ilerr.NewInvalidAnnotation{
			Positioner: expr,
			Annotation: ast.TypeString(expr),
			Reason:     arityReason(expr.Name, len(def.Params), len(args)),
		})
	}
	return types.NewAlias(expr.Name, args...), nil
}

func arityReason(name string, want, got int) string {
	return fmt.Sprintf("%s expects %d type argument(s), got %d", name, want, got)
}

// DefineDecl resolves the body of an alias declaration and registers it
func (r *Registry) DefineDecl(decl *ast.TypeAliasDecl) ilerr.IleError {
	scope := NewScope(0)
	scope.Rigid = true
	scope.Forward = true
	params := make([]*types.Var, 0, len(decl.Params))
	for _, name := range decl.Params {
		if _, dup := scope.vars[name]; dup {
			return ilerr.New(ilerr.NewDuplicateDefinition{Positioner: decl, Name: name})
		}
		v := r.fresher.Fresh(0)
		scope.Bind(name, v)
		params = append(params, v)
	}
	body, err := r.Resolve(decl.Body, scope)
	if err != nil {
		return err
	}
	return r.Define(Definition{Range: decl.Range, Name: decl.Name, Params: params, Body: body})
}
