package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/pkg/errors"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type IleError interface {
	Error() string
	Code() ErrCode
	// Fields is the machine-readable shape of the error, keyed by field name
	Fields() map[string]any
	ast.Positioner

	withStack([]byte) IleError
	getStack() []byte
}

func FormatWithCode(e IleError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if lines := strings.Split(stack, "\n"); !enableDebugFullStacktrace && len(lines) > 6 {
			stack = lines[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E IleError](err E) IleError {
	return err.withStack(debug.Stack())
}

// Location returns where err happened, or the zero Position when unknown
func Location(err IleError) ast.Position {
	if err == nil {
		return ast.Position{}
	}
	defer func() { _ = recover() }()
	return err.Pos()
}

func quoted(types []string) string {
	q := make([]string, 0, len(types))
	for _, t := range types {
		q = append(q, "'"+t+"'")
	}
	return strings.Join(q, ", ")
}

type NewSyntax struct {
	ast.Positioner
	Message string
	stack   []byte
}

func (e NewSyntax) Error() string          { return "syntax error: " + e.Message }
func (e NewSyntax) Code() ErrCode          { return SyntaxCode }
func (e NewSyntax) Fields() map[string]any { return map[string]any{"message": e.Message} }
func (e NewSyntax) getStack() []byte       { return e.stack }
func (e NewSyntax) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewTypeMismatch struct {
	ast.Positioner
	Expected string
	Found    string
	Reason   string
	stack    []byte
}

func (e NewTypeMismatch) Error() string {
	msg := fmt.Sprintf("type mismatch: expected '%s', found '%s'", e.Expected, e.Found)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
func (e NewTypeMismatch) Code() ErrCode { return TypeMismatchCode }
func (e NewTypeMismatch) Fields() map[string]any {
	return map[string]any{"expected": e.Expected, "found": e.Found, "reason": e.Reason}
}
func (e NewTypeMismatch) getStack() []byte { return e.stack }
func (e NewTypeMismatch) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUndefinedVariable struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedVariable) Code() ErrCode { return UndefinedVariableCode }
func (e NewUndefinedVariable) Error() string {
	return fmt.Sprintf("variable '%s' is not defined", e.Name)
}
func (e NewUndefinedVariable) Fields() map[string]any { return map[string]any{"name": e.Name} }
func (e NewUndefinedVariable) getStack() []byte       { return e.stack }
func (e NewUndefinedVariable) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUndefinedTypeVariable struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedTypeVariable) Code() ErrCode { return UndefinedTypeVariableCode }
func (e NewUndefinedTypeVariable) Error() string {
	return fmt.Sprintf("type variable '%s' is not defined", e.Name)
}
func (e NewUndefinedTypeVariable) Fields() map[string]any { return map[string]any{"name": e.Name} }
func (e NewUndefinedTypeVariable) getStack() []byte       { return e.stack }
func (e NewUndefinedTypeVariable) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewUndefinedConstructor is a reference to a type name that is neither
// a primitive nor a registered alias
type NewUndefinedConstructor struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedConstructor) Code() ErrCode { return UndefinedConstructorCode }
func (e NewUndefinedConstructor) Error() string {
	return fmt.Sprintf("type '%s' is not defined", e.Name)
}
func (e NewUndefinedConstructor) Fields() map[string]any { return map[string]any{"name": e.Name} }
func (e NewUndefinedConstructor) getStack() []byte       { return e.stack }
func (e NewUndefinedConstructor) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewNonExhaustive struct {
	ast.Positioner
	Missing []string
	stack   []byte
}

func (e NewNonExhaustive) Code() ErrCode { return NonExhaustiveCode }
func (e NewNonExhaustive) Error() string {
	return "non-exhaustive match, missing patterns: " + strings.Join(e.Missing, ", ")
}
func (e NewNonExhaustive) Fields() map[string]any { return map[string]any{"missing": e.Missing} }
func (e NewNonExhaustive) getStack() []byte       { return e.stack }
func (e NewNonExhaustive) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewIncompleteMatch is a match over a tuple or record which leaves some
// values out. Unlike NewNonExhaustive it does not fail the check.
type NewIncompleteMatch struct {
	ast.Positioner
	Missing []string
	stack   []byte
}

func (e NewIncompleteMatch) Code() ErrCode { return IncompleteMatchCode }
func (e NewIncompleteMatch) Error() string {
	return "match may not cover: " + strings.Join(e.Missing, ", ")
}
func (e NewIncompleteMatch) Fields() map[string]any { return map[string]any{"missing": e.Missing} }
func (e NewIncompleteMatch) getStack() []byte       { return e.stack }
func (e NewIncompleteMatch) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnreachablePattern struct {
	ast.Positioner
	Pattern string
	// Case is the 0-based index of the unreachable case
	Case  int
	stack []byte
}

func (e NewUnreachablePattern) Code() ErrCode { return UnreachablePatternCode }
func (e NewUnreachablePattern) Error() string {
	return fmt.Sprintf("unreachable pattern '%s' in case %d", e.Pattern, e.Case)
}
func (e NewUnreachablePattern) Fields() map[string]any {
	return map[string]any{"pattern": e.Pattern, "case": e.Case}
}
func (e NewUnreachablePattern) getStack() []byte { return e.stack }
func (e NewUnreachablePattern) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewContradictoryPattern reports overlapping or self-contradicting patterns
type NewContradictoryPattern struct {
	ast.Positioner
	Pattern string
	Reason  string
	stack   []byte
}

func (e NewContradictoryPattern) Code() ErrCode { return ContradictoryPatternCode }
func (e NewContradictoryPattern) Error() string {
	return fmt.Sprintf("overlapping pattern '%s': %s", e.Pattern, e.Reason)
}
func (e NewContradictoryPattern) Fields() map[string]any {
	return map[string]any{"pattern": e.Pattern, "reason": e.Reason}
}
func (e NewContradictoryPattern) getStack() []byte { return e.stack }
func (e NewContradictoryPattern) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnsupportedPattern struct {
	ast.Positioner
	Pattern string
	stack   []byte
}

func (e NewUnsupportedPattern) Code() ErrCode { return UnsupportedPatternCode }
func (e NewUnsupportedPattern) Error() string {
	return fmt.Sprintf("unsupported pattern '%s'", e.Pattern)
}
func (e NewUnsupportedPattern) Fields() map[string]any { return map[string]any{"pattern": e.Pattern} }
func (e NewUnsupportedPattern) getStack() []byte       { return e.stack }
func (e NewUnsupportedPattern) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewOccursCheck struct {
	ast.Positioner
	Var   string
	Type  string
	stack []byte
}

func (e NewOccursCheck) Code() ErrCode { return OccursCheckCode }
func (e NewOccursCheck) Error() string {
	return fmt.Sprintf("occurs check: '%s' occurs in '%s'", e.Var, e.Type)
}
func (e NewOccursCheck) Fields() map[string]any {
	return map[string]any{"var": e.Var, "type": e.Type}
}
func (e NewOccursCheck) getStack() []byte { return e.stack }
func (e NewOccursCheck) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewInvalidAnnotation struct {
	ast.Positioner
	Annotation string
	Reason     string
	stack      []byte
}

func (e NewInvalidAnnotation) Code() ErrCode { return InvalidAnnotationCode }
func (e NewInvalidAnnotation) Error() string {
	return fmt.Sprintf("invalid annotation '%s': %s", e.Annotation, e.Reason)
}
func (e NewInvalidAnnotation) Fields() map[string]any {
	return map[string]any{"annotation": e.Annotation, "reason": e.Reason}
}
func (e NewInvalidAnnotation) getStack() []byte { return e.stack }
func (e NewInvalidAnnotation) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewSubtypeFailure struct {
	ast.Positioner
	Sub    string
	Super  string
	Reason string
	stack  []byte
}

func (e NewSubtypeFailure) Code() ErrCode { return SubtypeFailureCode }
func (e NewSubtypeFailure) Error() string {
	msg := fmt.Sprintf("'%s' is not a subtype of '%s'", e.Sub, e.Super)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
func (e NewSubtypeFailure) Fields() map[string]any {
	return map[string]any{"sub": e.Sub, "super": e.Super, "reason": e.Reason}
}
func (e NewSubtypeFailure) getStack() []byte { return e.stack }
func (e NewSubtypeFailure) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnionFailure struct {
	ast.Positioner
	Type         string
	Alternatives []string
	stack        []byte
}

func (e NewUnionFailure) Code() ErrCode { return UnionFailureCode }
func (e NewUnionFailure) Error() string {
	return fmt.Sprintf("'%s' matches none of the union alternatives %s", e.Type, quoted(e.Alternatives))
}
func (e NewUnionFailure) Fields() map[string]any {
	return map[string]any{"type": e.Type, "alternatives": e.Alternatives}
}
func (e NewUnionFailure) getStack() []byte { return e.stack }
func (e NewUnionFailure) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewIntersectionFailure struct {
	ast.Positioner
	Type    string
	Members []string
	stack   []byte
}

func (e NewIntersectionFailure) Code() ErrCode { return IntersectionFailureCode }
func (e NewIntersectionFailure) Error() string {
	return fmt.Sprintf("'%s' does not satisfy the intersection members %s", e.Type, quoted(e.Members))
}
func (e NewIntersectionFailure) Fields() map[string]any {
	return map[string]any{"type": e.Type, "members": e.Members}
}
func (e NewIntersectionFailure) getStack() []byte { return e.stack }
func (e NewIntersectionFailure) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewMergeConflict struct {
	ast.Positioner
	Field  string
	First  string
	Second string
	stack  []byte
}

func (e NewMergeConflict) Code() ErrCode { return MergeConflictCode }
func (e NewMergeConflict) Error() string {
	return fmt.Sprintf("merge conflict on field '%s': '%s' and '%s' are incompatible", e.Field, e.First, e.Second)
}
func (e NewMergeConflict) Fields() map[string]any {
	return map[string]any{"field": e.Field, "first": e.First, "second": e.Second}
}
func (e NewMergeConflict) getStack() []byte { return e.stack }
func (e NewMergeConflict) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewRecordFieldMismatch struct {
	ast.Positioner
	Expected string
	Found    string
	Missing  []string
	Extra    []string
	stack    []byte
}

func (e NewRecordFieldMismatch) Code() ErrCode { return RecordFieldMismatchCode }
func (e NewRecordFieldMismatch) Error() string {
	msg := fmt.Sprintf("record field mismatch between '%s' and '%s'", e.Expected, e.Found)
	if len(e.Missing) > 0 {
		msg += "; missing fields: " + strings.Join(e.Missing, ", ")
	}
	if len(e.Extra) > 0 {
		msg += "; unexpected fields: " + strings.Join(e.Extra, ", ")
	}
	return msg
}
func (e NewRecordFieldMismatch) Fields() map[string]any {
	return map[string]any{"expected": e.Expected, "found": e.Found, "missing": e.Missing, "extra": e.Extra}
}
func (e NewRecordFieldMismatch) getStack() []byte { return e.stack }
func (e NewRecordFieldMismatch) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewTypeClassFailure struct {
	ast.Positioner
	Type  string
	Class string
	// Unknown is set when Class itself is not a known class
	Unknown bool
	stack   []byte
}

func (e NewTypeClassFailure) Code() ErrCode { return TypeClassFailureCode }
func (e NewTypeClassFailure) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown type class '%s'", e.Class)
	}
	return fmt.Sprintf("'%s' is not an instance of '%s'", e.Type, e.Class)
}
func (e NewTypeClassFailure) Fields() map[string]any {
	return map[string]any{"type": e.Type, "class": e.Class, "unknown": e.Unknown}
}
func (e NewTypeClassFailure) getStack() []byte { return e.stack }
func (e NewTypeClassFailure) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewDuplicateDefinition struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewDuplicateDefinition) Code() ErrCode { return DuplicateDefinitionCode }
func (e NewDuplicateDefinition) Error() string {
	return fmt.Sprintf("duplicate definition of '%s'", e.Name)
}
func (e NewDuplicateDefinition) Fields() map[string]any { return map[string]any{"name": e.Name} }
func (e NewDuplicateDefinition) getStack() []byte       { return e.stack }
func (e NewDuplicateDefinition) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewCircularTypeDefinition struct {
	ast.Positioner
	Name  string
	Cycle []string
	stack []byte
}

func (e NewCircularTypeDefinition) Code() ErrCode { return CircularTypeDefinitionCode }
func (e NewCircularTypeDefinition) Error() string {
	return fmt.Sprintf("circular type definition '%s': %s", e.Name, strings.Join(e.Cycle, " -> "))
}
func (e NewCircularTypeDefinition) Fields() map[string]any {
	return map[string]any{"name": e.Name, "cycle": e.Cycle}
}
func (e NewCircularTypeDefinition) getStack() []byte { return e.stack }
func (e NewCircularTypeDefinition) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewInvalidRecursion struct {
	ast.Positioner
	Name   string
	Reason string
	stack  []byte
}

func (e NewInvalidRecursion) Code() ErrCode { return InvalidRecursionCode }
func (e NewInvalidRecursion) Error() string {
	return fmt.Sprintf("invalid recursion in '%s': %s", e.Name, e.Reason)
}
func (e NewInvalidRecursion) Fields() map[string]any {
	return map[string]any{"name": e.Name, "reason": e.Reason}
}
func (e NewInvalidRecursion) getStack() []byte { return e.stack }
func (e NewInvalidRecursion) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

// NewInternal is an unexpected state of the checker itself, wrapping
// the Go error that caused it
type NewInternal struct {
	ast.Positioner
	From  error
	stack []byte
}

// Internal wraps cause with message into a NewInternal
func Internal(pos ast.Positioner, cause error, message string) IleError {
	if cause == nil {
		return New(NewInternal{Positioner: pos, From: errors.New(message)})
	}
	return New(NewInternal{Positioner: pos, From: errors.Wrap(cause, message)})
}

// Internalf is like Internal, but for errors that have no underlying cause
func Internalf(pos ast.Positioner, format string, args ...any) IleError {
	return New(NewInternal{Positioner: pos, From: errors.Errorf(format, args...)})
}

func (e NewInternal) Code() ErrCode { return InternalCode }
func (e NewInternal) Error() string {
	return fmt.Sprintf("internal error: %v", e.From)
}
func (e NewInternal) Fields() map[string]any {
	return map[string]any{"cause": errors.Cause(e.From).Error(), "message": fmt.Sprint(e.From)}
}
func (e NewInternal) Unwrap() error    { return e.From }
func (e NewInternal) getStack() []byte { return e.stack }
func (e NewInternal) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}

type NewUnimplemented struct {
	ast.Positioner
	Feature string
	stack   []byte
}

func (e NewUnimplemented) Code() ErrCode { return UnimplementedCode }
func (e NewUnimplemented) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Feature)
}
func (e NewUnimplemented) Fields() map[string]any { return map[string]any{"feature": e.Feature} }
func (e NewUnimplemented) getStack() []byte       { return e.stack }
func (e NewUnimplemented) withStack(stack []byte) IleError {
	e.stack = stack
	return e
}
