package ilerr

import (
	"fmt"
	"testing"

	"github.com/cottand/shapecheck/frontend/ast"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMessageRoundTrip(t *testing.T) {
	pos := ast.At(2, 5)
	tests := []IleError{
		New(NewTypeMismatch{Positioner: pos, Expected: "Int", Found: "String"}),
		New(NewTypeMismatch{Positioner: pos, Expected: "Bool", Found: "Unit", Reason: "in condition"}),
		New(NewUndefinedVariable{Positioner: pos, Name: "x"}),
		New(NewUndefinedTypeVariable{Positioner: pos, Name: "a"}),
		New(NewUndefinedConstructor{Positioner: pos, Name: "Shape"}),
		New(NewNonExhaustive{Positioner: pos, Missing: []string{"False"}}),
		New(NewUnreachablePattern{Positioner: pos, Pattern: "_", Case: 2}),
		New(NewContradictoryPattern{Positioner: pos, Pattern: "1", Reason: "duplicate literal"}),
		New(NewOccursCheck{Positioner: pos, Var: "t1", Type: "t1 -> Int"}),
		New(NewSubtypeFailure{Positioner: pos, Sub: "{a: Int}", Super: "{a: Int, b: String}"}),
		New(NewMergeConflict{Positioner: pos, Field: "b", First: "Int", Second: "String"}),
		New(NewTypeClassFailure{Positioner: pos, Class: "Hashable", Unknown: true}),
		New(NewTypeClassFailure{Positioner: pos, Type: "Int -> Int", Class: "Comparable"}),
		New(NewDuplicateDefinition{Positioner: pos, Name: "List"}),
		New(NewCircularTypeDefinition{Positioner: pos, Name: "A", Cycle: []string{"A", "B", "A"}}),
		New(NewUnimplemented{Positioner: pos, Feature: "higher kinds"}),
	}
	for _, original := range tests {
		t.Run(original.Error(), func(t *testing.T) {
			upgraded := FromMessage(original.Error(), pos)
			assert.Equal(t, original.Code(), upgraded.Code())
			assert.Equal(t, original.Error(), upgraded.Error())
			assert.Equal(t, original.Fields(), upgraded.Fields())
			assert.Equal(t, ast.Position{Line: 2, Column: 5}, Location(upgraded))
		})
	}
}

func TestFromMessageLegacyShapes(t *testing.T) {
	tests := map[string]ErrCode{
		"cannot unify Int with String":  TypeMismatchCode,
		"Undefined variable: foo":       UndefinedVariableCode,
		"undefined type variable 'b'":   UndefinedTypeVariableCode,
		"Non-exhaustive patterns: True": NonExhaustiveCode,
		"something entirely unexpected": InternalCode,
	}
	for msg, code := range tests {
		t.Run(msg, func(t *testing.T) {
			assert.Equal(t, code, FromMessage(msg, nil).Code())
		})
	}
	assert.Equal(t, map[string]any{"name": "foo"}, FromMessage("Undefined variable: foo", nil).Fields())
}

func TestCategoriesAndSeverities(t *testing.T) {
	assert.Equal(t, CategoryType, TypeMismatchCode.Category())
	assert.Equal(t, CategorySemantic, CircularTypeDefinitionCode.Category())
	assert.Equal(t, CategorySyntax, SyntaxCode.Category())
	assert.Equal(t, CategoryInternal, InternalCode.Category())
	assert.Equal(t, SeverityWarning, UnreachablePatternCode.Severity())
	assert.Equal(t, SeverityError, NonExhaustiveCode.Severity())
	assert.Equal(t, "TypeMismatch", TypeMismatchCode.String())
}

func TestInternalWrapsCause(t *testing.T) {
	cause := fmt.Errorf("depth exceeded")
	err := Internal(ast.At(1, 1), cause, "unify")
	require.Equal(t, InternalCode, err.Code())
	assert.Equal(t, "internal error: unify: depth exceeded", err.Error())
	assert.Equal(t, cause, pkgerrors.Cause(err.(NewInternal).From))
	assert.Equal(t, "depth exceeded", err.Fields()["cause"])
}

func TestErrorsCollection(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	errs = errs.With(New(NewUnreachablePattern{Positioner: ast.Range{}, Pattern: "_", Case: 1}))
	assert.False(t, errs.HasError())
	assert.Equal(t, 1, errs.Len())
	errs = errs.Merge((&Errors{}).With(New(NewUndefinedVariable{Positioner: ast.Range{}, Name: "y"})))
	assert.True(t, errs.HasError())
	assert.Len(t, errs.BySeverity(SeverityWarning), 1)
	assert.Contains(t, errs.Error(), "(E003) variable 'y' is not defined")
}

func TestLocationWithoutPositioner(t *testing.T) {
	err := New(NewUndefinedVariable{Name: "z"})
	assert.Equal(t, ast.Position{}, Location(err))
}
