package types

import (
	"strconv"
	"strings"
)

func (f *Func) String() string {
	var sb strings.Builder
	showIn(&sb, f.Param, precFuncParam)
	sb.WriteString(" -> ")
	showIn(&sb, f.Result, precFuncResult)
	return sb.String()
}

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	i := 0
	for name, t := range r.All() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		showIn(&sb, t, precTop)
		i++
	}
	if r.Row != nil {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("| ρ")
		sb.WriteString(strconv.Itoa(r.Row.ID))
	}
	sb.WriteString("}")
	return sb.String()
}

func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, elem := range t.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		showIn(&sb, elem, precTop)
	}
	sb.WriteString(")")
	return sb.String()
}

func (u *Union) String() string {
	return showMembers(u.Alts, " | ")
}

func (i *Intersection) String() string {
	return showMembers(i.Members, " & ")
}

func (a *Alias) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	var sb strings.Builder
	sb.WriteString(a.Name)
	sb.WriteString("[")
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		showIn(&sb, arg, precTop)
	}
	sb.WriteString("]")
	return sb.String()
}

func (r *Recursive) String() string {
	var sb strings.Builder
	sb.WriteString("μ")
	sb.WriteString(r.Binder.String())
	sb.WriteString(".")
	showIn(&sb, r.Body, precMember)
	return sb.String()
}

const (
	precTop = iota
	precFuncResult
	precFuncParam
	precMember
)

func showMembers(ts []Type, sep string) string {
	var sb strings.Builder
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(sep)
		}
		showIn(&sb, t, precMember)
	}
	return sb.String()
}

// showIn writes t to sb, in parentheses when t binds looser than prec allows
func showIn(sb *strings.Builder, t Type, prec int) {
	needsParens := false
	switch t.(type) {
	case *Func:
		needsParens = prec >= precFuncParam
	case *Union, *Intersection:
		needsParens = prec >= precFuncResult
	case *Recursive:
		needsParens = prec >= precFuncParam
	}
	if needsParens {
		sb.WriteString("(")
	}
	sb.WriteString(t.String())
	if needsParens {
		sb.WriteString(")")
	}
}
