// Package frontend is the entry point of the type checker: it ties the
// constraint generator, the solver and the alias registry of one session
// together behind Checker
package frontend

import (
	"fmt"
	"log/slog"

	"github.com/cottand/shapecheck/frontend/alias"
	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/env"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/infer"
	"github.com/cottand/shapecheck/frontend/solver"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/internal/log"
)

type Config struct {
	// Logger receives the checker's records, with expressions rendered lazily.
	// nil means log.DefaultLogger
	Logger *slog.Logger
	// MaxDepth bounds how deep unification and subtyping may recurse
	MaxDepth int
	// WithPrelude starts the environment from Prelude instead of empty
	WithPrelude bool
}

func DefaultConfig() Config {
	return Config{
		Logger:      log.DefaultLogger,
		MaxDepth:    solver.DefaultConfig().MaxDepth,
		WithPrelude: true,
	}
}

// Checker is one checking session. Declarations checked through
// TypeCheckProgram stay in scope for later calls.
// A Checker is not safe for concurrent use.
type Checker struct {
	config    Config
	logger    *slog.Logger
	fresher   *types.Fresher
	registry  *alias.Registry
	solver    *solver.Solver
	generator *infer.Generator
	env       env.Env
}

func NewChecker(config Config) *Checker {
	if config.Logger == nil {
		config.Logger = log.DefaultLogger
	}
	fresher := types.NewFresher()
	registry := alias.NewRegistry(fresher)
	s := solver.New(fresher, registry, solver.Config{MaxDepth: config.MaxDepth})
	c := &Checker{
		config:    config,
		logger:    ast.ExprLogger(config.Logger).With("section", "checker"),
		fresher:   fresher,
		registry:  registry,
		solver:    s,
		generator: infer.New(fresher, registry, s),
		env:       env.Empty(),
	}
	if config.WithPrelude {
		c.env = Prelude(fresher)
	}
	return c
}

// Env is the environment the next expression is checked in
func (c *Checker) Env() env.Env { return c.env }

// Success is a well-typed expression
type Success struct {
	Type     types.Type
	Subst    types.Subst
	Env      env.Env
	Warnings []ilerr.IleError
}

// TypeCheck infers the type of expr in the current environment.
// The returned error is an ilerr.IleError.
func (c *Checker) TypeCheck(expr ast.Expr) (Success, error) {
	result, err := c.check(expr)
	if err != nil {
		return Success{}, err
	}
	return result, nil
}

func (c *Checker) check(expr ast.Expr) (Success, ilerr.IleError) {
	c.logger.Debug("checking expression", "expr", expr)
	t, cs, err := c.generator.Generate(expr, c.env)
	if err != nil {
		c.logger.Debug("constraint generation failed", "expr", expr, "error", err)
		return Success{}, err
	}
	subst, err := c.solver.Solve(cs)
	if err != nil {
		c.logger.Debug("constraints do not solve", "expr", expr, "error", err)
		return Success{}, err
	}
	result := Success{
		Type:     subst.Apply(t),
		Subst:    subst,
		Env:      c.env,
		Warnings: c.generator.Warnings(),
	}
	c.logger.Debug("checked expression", "expr", expr, "type", result.Type)
	return result, nil
}

// DeclResult is the outcome of one declaration of a program
type DeclResult struct {
	Decl ast.Decl
	// Scheme is what a let declaration binds, or the type of an expression
	// declaration. It is the zero Scheme for type aliases and failures.
	Scheme types.Scheme
	Err    ilerr.IleError
}

type ProgramResult struct {
	Decls    []DeclResult
	Env      env.Env
	Errors   *ilerr.Errors
	Warnings []ilerr.IleError
}

func (r ProgramResult) Ok() bool { return !r.Errors.HasError() }

// TypeCheckProgram checks the declarations of program in order and
// continues past the ones that fail. Type aliases are registered before
// any let so that they may be used ahead of their definition.
// A let that fails binds its name to ∀a.a.
func (c *Checker) TypeCheckProgram(program *ast.Program) ProgramResult {
	var result ProgramResult
	results := make(map[ast.Decl]DeclResult, len(program.Decls))
	for _, decl := range program.Decls {
		if decl, ok := decl.(*ast.TypeAliasDecl); ok {
			err := c.registry.DefineDecl(decl)
			results[decl] = DeclResult{Decl: decl, Err: err}
		}
	}

	for _, decl := range program.Decls {
		switch decl := decl.(type) {
		case *ast.TypeAliasDecl:
			result.Decls = append(result.Decls, results[decl])
		case *ast.LetDecl:
			scheme, err := c.checkLet(decl)
			result.Decls = append(result.Decls, DeclResult{Decl: decl, Scheme: scheme, Err: err})
			result.Warnings = append(result.Warnings, c.generator.Warnings()...)
			if err != nil {
				scheme = c.anything()
			}
			c.env = c.env.Bind(decl.Name, scheme)
		case *ast.ExprDecl:
			success, err := c.check(decl.Expr)
			declResult := DeclResult{Decl: decl, Err: err}
			if err == nil {
				declResult.Scheme = types.Mono(success.Type)
				result.Warnings = append(result.Warnings, success.Warnings...)
			}
			result.Decls = append(result.Decls, declResult)
		default:
			err := ilerr.New(ilerr.NewUnimplemented{Positioner: decl, Feature: fmt.Sprintf("declaration %T", decl)})
			result.Decls = append(result.Decls, DeclResult{Decl: decl, Err: err})
		}
	}

	for _, d := range result.Decls {
		if d.Err != nil {
			result.Errors = result.Errors.With(d.Err)
		}
	}
	result.Env = c.env
	c.logger.Info("checked program", "declarations", len(program.Decls), "errors", result.Errors)
	return result
}

func (c *Checker) checkLet(decl *ast.LetDecl) (types.Scheme, ilerr.IleError) {
	scheme, cs, err := c.generator.GenerateDecl(decl, c.env)
	if err != nil {
		return types.Scheme{}, err
	}
	// a value that does not solve was bound monomorphically, and fails again here
	if _, err := c.solver.Solve(cs); err != nil {
		c.logger.Debug("let declaration failed", "name", decl.Name, "error", err)
		return types.Scheme{}, err
	}
	c.logger.Debug("bound let declaration", "name", decl.Name, "scheme", scheme)
	return scheme, nil
}

// anything is ∀a.a, which unifies with every use
func (c *Checker) anything() types.Scheme {
	v := c.fresher.Fresh(0)
	return types.Scheme{Vars: []*types.Var{v}, Body: v}
}
