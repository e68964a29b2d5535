package ilerr

import "fmt"

type ErrCode int

const (
	None ErrCode = iota
	SyntaxCode
	TypeMismatchCode
	UndefinedVariableCode
	UndefinedTypeVariableCode
	UndefinedConstructorCode
	NonExhaustiveCode
	UnreachablePatternCode
	ContradictoryPatternCode
	UnsupportedPatternCode
	OccursCheckCode
	InvalidAnnotationCode
	SubtypeFailureCode
	UnionFailureCode
	IntersectionFailureCode
	MergeConflictCode
	RecordFieldMismatchCode
	TypeClassFailureCode
	DuplicateDefinitionCode
	CircularTypeDefinitionCode
	InvalidRecursionCode
	InternalCode
	UnimplementedCode
	IncompleteMatchCode
)

var codeNames = map[ErrCode]string{
	None:                       "None",
	SyntaxCode:                 "Syntax",
	TypeMismatchCode:           "TypeMismatch",
	UndefinedVariableCode:      "UndefinedVariable",
	UndefinedTypeVariableCode:  "UndefinedTypeVariable",
	UndefinedConstructorCode:   "UndefinedConstructor",
	NonExhaustiveCode:          "NonExhaustive",
	UnreachablePatternCode:     "UnreachablePattern",
	ContradictoryPatternCode:   "ContradictoryPattern",
	UnsupportedPatternCode:     "UnsupportedPattern",
	OccursCheckCode:            "OccursCheck",
	InvalidAnnotationCode:      "InvalidAnnotation",
	SubtypeFailureCode:         "SubtypeFailure",
	UnionFailureCode:           "UnionFailure",
	IntersectionFailureCode:    "IntersectionFailure",
	MergeConflictCode:          "MergeConflict",
	RecordFieldMismatchCode:    "RecordFieldMismatch",
	TypeClassFailureCode:       "TypeClassFailure",
	DuplicateDefinitionCode:    "DuplicateDefinition",
	CircularTypeDefinitionCode: "CircularTypeDefinition",
	InvalidRecursionCode:       "InvalidRecursion",
	InternalCode:               "Internal",
	UnimplementedCode:          "Unimplemented",
	IncompleteMatchCode:        "IncompleteMatch",
}

// String is the stable machine-readable kind of the code
func (c ErrCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrCode(%d)", int(c))
}

type Category int

const (
	CategorySyntax Category = iota
	CategoryType
	CategorySemantic
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryType:
		return "type"
	case CategorySemantic:
		return "semantic"
	default:
		return "internal"
	}
}

func (c ErrCode) Category() Category {
	switch c {
	case SyntaxCode:
		return CategorySyntax
	case DuplicateDefinitionCode, CircularTypeDefinitionCode, InvalidRecursionCode:
		return CategorySemantic
	case None, InternalCode, UnimplementedCode:
		return CategoryInternal
	default:
		return CategoryType
	}
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "error"
	}
}

func (c ErrCode) Severity() Severity {
	switch c {
	case UnreachablePatternCode, ContradictoryPatternCode, IncompleteMatchCode:
		return SeverityWarning
	default:
		return SeverityError
	}
}
