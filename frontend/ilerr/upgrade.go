package ilerr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cottand/shapecheck/frontend/ast"
	"github.com/pkg/errors"
)

type upgrade struct {
	pattern *regexp.Regexp
	build   func(pos ast.Positioner, groups []string) IleError
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, strings.Trim(item, "'"))
		}
	}
	return items
}

// upgrades are tried in order; the first match wins
var upgrades = []upgrade{
	{
		pattern: regexp.MustCompile(`^syntax error: (.*)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewSyntax{Positioner: pos, Message: g[1]})
		},
	},
	{
		pattern: regexp.MustCompile(`^type mismatch: expected '(.*?)', found '(.*?)'(?:: (.*))?$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewTypeMismatch{Positioner: pos, Expected: g[1], Found: g[2], Reason: g[3]})
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:cannot unify|could not unify) '?(.*?)'? (?:with|and) '?(.*?)'?$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewTypeMismatch{Positioner: pos, Expected: g[1], Found: g[2]})
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:variable '(\w+)' is not defined|(?i:undefined (?:variable|name)):? '?(\w+)'?)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewUndefinedVariable{Positioner: pos, Name: g[1] + g[2]})
		},
	},
	{
		pattern: regexp.MustCompile(`^(?:type variable '(\w+)' is not defined|(?i:undefined type variable):? '?(\w+)'?)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewUndefinedTypeVariable{Positioner: pos, Name: g[1] + g[2]})
		},
	},
	{
		pattern: regexp.MustCompile(`^type '(\w+)' is not defined$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewUndefinedConstructor{Positioner: pos, Name: g[1]})
		},
	},
	{
		pattern: regexp.MustCompile(`^(?i:non-exhaustive)[^:]*: (.*)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewNonExhaustive{Positioner: pos, Missing: splitList(g[1])})
		},
	},
	{
		pattern: regexp.MustCompile(`^unreachable pattern '(.*)' in case (\d+)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			n, _ := strconv.Atoi(g[2])
			return New(NewUnreachablePattern{Positioner: pos, Pattern: g[1], Case: n})
		},
	},
	{
		pattern: regexp.MustCompile(`^overlapping pattern '(.*)': (.*)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewContradictoryPattern{Positioner: pos, Pattern: g[1], Reason: g[2]})
		},
	},
	{
		pattern: regexp.MustCompile(`^occurs check: '(.*?)' occurs in '(.*)'$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewOccursCheck{Positioner: pos, Var: g[1], Type: g[2]})
		},
	},
	{
		pattern: regexp.MustCompile(`^'(.*?)' is not a subtype of '(.*?)'(?:: (.*))?$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewSubtypeFailure{Positioner: pos, Sub: g[1], Super: g[2], Reason: g[3]})
		},
	},
	{
		pattern: regexp.MustCompile(`^merge conflict on field '(.*?)': '(.*?)' and '(.*?)' are incompatible$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewMergeConflict{Positioner: pos, Field: g[1], First: g[2], Second: g[3]})
		},
	},
	{
		pattern: regexp.MustCompile(`^unknown type class '(\w+)'$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewTypeClassFailure{Positioner: pos, Class: g[1], Unknown: true})
		},
	},
	{
		pattern: regexp.MustCompile(`^'(.*?)' is not an instance of '(\w+)'$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewTypeClassFailure{Positioner: pos, Type: g[1], Class: g[2]})
		},
	},
	{
		pattern: regexp.MustCompile(`^duplicate definition of '(\w+)'$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewDuplicateDefinition{Positioner: pos, Name: g[1]})
		},
	},
	{
		pattern: regexp.MustCompile(`^circular type (?:definition|alias) '(\w+)'(?:: (.*))?$`),
		build: func(pos ast.Positioner, g []string) IleError {
			var cycle []string
			if g[2] != "" {
				cycle = strings.Split(g[2], " -> ")
			}
			return New(NewCircularTypeDefinition{Positioner: pos, Name: g[1], Cycle: cycle})
		},
	},
	{
		pattern: regexp.MustCompile(`^not implemented: (.*)$`),
		build: func(pos ast.Positioner, g []string) IleError {
			return New(NewUnimplemented{Positioner: pos, Feature: g[1]})
		},
	},
}

// FromMessage upgrades a plain-text error message into a structured IleError.
// The mapping is deterministic; messages that match no known shape become
// NewInternal errors carrying the original text.
func FromMessage(message string, pos ast.Positioner) IleError {
	if pos == nil {
		pos = ast.Range{}
	}
	message = strings.TrimSpace(message)
	for _, u := range upgrades {
		if groups := u.pattern.FindStringSubmatch(message); groups != nil {
			return u.build(pos, groups)
		}
	}
	return New(NewInternal{Positioner: pos, From: errors.New(message)})
}
