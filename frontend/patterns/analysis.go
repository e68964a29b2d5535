// Package patterns analyses the cases of a match expression: whether
// they cover every value, whether some can never be reached, and what
// the variables they bind can be narrowed to.
package patterns

import (
	"fmt"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/cottand/shapecheck/frontend/ilerr"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/cottand/shapecheck/internal/log"
	"github.com/cottand/shapecheck/util"
	"github.com/hashicorp/go-set/v3"
)

var logger = log.DefaultLogger.With("section", "patterns")

// Analysis is the result of every pass over the cases of one match
type Analysis struct {
	// Missing lists the uncovered values in source syntax, sorted
	Missing []string
	// Decided is false when the scrutinee had too many values to enumerate,
	// in which case Missing is empty
	Decided bool
	// Unreachable holds the indexes of cases that never match
	Unreachable    []int
	Contradictions []Contradiction
	// Refinements holds, per case, the narrowed types of the variables it binds
	Refinements []map[string]types.Type
}

type Contradiction struct {
	Case   int
	Reason string
}

func (a Analysis) Exhaustive() bool {
	return len(a.Missing) == 0
}

// Analyze runs every pass. scrutinee should already have its aliases normalised.
func Analyze(scrutinee types.Type, cases []ast.Pattern) Analysis {
	missing, decided := Exhaustiveness(scrutinee, cases)
	analysis := Analysis{
		Missing:        missing,
		Decided:        decided,
		Unreachable:    Reachability(cases),
		Contradictions: Contradictions(cases),
		Refinements:    make([]map[string]types.Type, 0, len(cases)),
	}
	for _, p := range cases {
		analysis.Refinements = append(analysis.Refinements, Refine(scrutinee, p))
	}
	logger.Debug("analysed match",
		"scrutinee", scrutinee,
		"cases", len(cases),
		"missing", analysis.Missing,
		"unreachable", analysis.Unreachable,
		"contradictions", len(analysis.Contradictions))
	return analysis
}

// Warnings turns unreachable cases and contradictions into warning-level errors
func (a Analysis) Warnings(cases []ast.Pattern) []ilerr.IleError {
	var warnings []ilerr.IleError
	for _, i := range a.Unreachable {
		warnings = append(warnings, ilerr.New(ilerr.NewUnreachablePattern{
			Positioner: cases[i],
			Pattern:    ast.PatternString(cases[i]),
			Case:       i,
		}))
	}
	for _, c := range a.Contradictions {
		warnings = append(warnings, ilerr.New(ilerr.NewContradictoryPattern{
			Positioner: cases[c.Case],
			Pattern:    ast.PatternString(cases[c.Case]),
			Reason:     c.Reason,
		}))
	}
	return warnings
}

// IsEnumerable reports whether the values of t can be listed, so that
// asking for exhaustiveness makes sense: Bool, literals, and unions,
// possibly under a recursive type
func IsEnumerable(t types.Type) bool {
	switch t := t.(type) {
	case types.Primitive:
		return t == types.Bool
	case types.Literal, *types.Union:
		return true
	case *types.Recursive:
		return IsEnumerable(t.Body)
	default:
		return false
	}
}

// Exhaustiveness returns the values of scrutinee that no case covers.
// A wildcard or bare variable case covers everything. It reports false
// when the scrutinee has too many values to check.
func Exhaustiveness(scrutinee types.Type, cases []ast.Pattern) ([]string, bool) {
	if util.AnyOf(cases, ast.IsIrrefutable) {
		return nil, true
	}
	spaces, ok := enumerate(scrutinee)
	if !ok {
		logger.Warn("too many values to check exhaustiveness", "scrutinee", scrutinee)
		return nil, false
	}
	var missing []string
	for _, s := range spaces {
		if !util.AnyOf(cases, func(p ast.Pattern) bool { return covers(p, s) }) {
			missing = append(missing, s.String())
		}
	}
	return util.SortedUnique(missing), true
}

// Reachability returns the indexes of the cases which an earlier case
// already matches in full
func Reachability(cases []ast.Pattern) []int {
	var unreachable []int
	for i, p := range cases {
		for _, earlier := range cases[:i] {
			if Subsumes(earlier, p) {
				unreachable = append(unreachable, i)
				break
			}
		}
	}
	return unreachable
}

// Contradictions finds cases which repeat an earlier literal or compound
// pattern, and patterns that bind a variable or a field more than once
func Contradictions(cases []ast.Pattern) []Contradiction {
	var found []Contradiction
	seen := make(map[string]int, len(cases))
	for i, p := range cases {
		if reason, bad := selfContradiction(p); bad {
			found = append(found, Contradiction{Case: i, Reason: reason})
		}
		if ast.IsIrrefutable(p) {
			continue
		}
		key := fromPattern(p).String()
		if first, dup := seen[key]; dup {
			kind := "pattern"
			if _, isLit := p.(*ast.LiteralPattern); isLit {
				kind = "literal"
			}
			found = append(found, Contradiction{
				Case:   i,
				Reason: fmt.Sprintf("duplicate %s %s, already matched by case %d", kind, key, first),
			})
			continue
		}
		seen[key] = i
	}
	return found
}

func selfContradiction(p ast.Pattern) (string, bool) {
	bound := set.New[string](0)
	for _, name := range ast.PatternVars(p) {
		if !bound.Insert(name) {
			return fmt.Sprintf("variable '%s' is bound more than once", name), true
		}
	}
	var duplicateField string
	var walk func(p ast.Pattern)
	walk = func(p ast.Pattern) {
		switch p := p.(type) {
		case *ast.TuplePattern:
			for _, e := range p.Elems {
				walk(e)
			}
		case *ast.RecordPattern:
			names := set.New[string](len(p.Fields))
			for _, f := range p.Fields {
				if !names.Insert(f.Name) && duplicateField == "" {
					duplicateField = f.Name
				}
				walk(f.Pattern)
			}
		}
	}
	walk(p)
	if duplicateField != "" {
		return fmt.Sprintf("field '%s' is matched more than once", duplicateField), true
	}
	return "", false
}
