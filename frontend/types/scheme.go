package types

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Scheme is a type closed over Vars: ∀Vars. Body
type Scheme struct {
	Vars []*Var
	Body Type
}

// Mono is a scheme with nothing quantified
func Mono(t Type) Scheme {
	return Scheme{Body: t}
}

// Generalize quantifies the free variables of t that are not in exclude
func Generalize(t Type, exclude set.Collection[*Var]) Scheme {
	var quantified []*Var
	for v := range FreeVars(t).Items() {
		if exclude == nil || !exclude.Contains(v) {
			quantified = append(quantified, v)
		}
	}
	return Scheme{Vars: quantified, Body: t}
}

func (s Scheme) IsMono() bool { return len(s.Vars) == 0 }

// Instantiate replaces the quantified variables by fresh ones
func (s Scheme) Instantiate(f *Fresher, level int) Type {
	if s.IsMono() {
		return s.Body
	}
	subst := EmptySubst()
	for _, v := range s.Vars {
		subst = subst.Bind(v, f.Fresh(level))
	}
	return subst.Apply(s.Body)
}

// FreeVars are the variables of the body which are not quantified
func (s Scheme) FreeVars() *set.TreeSet[*Var] {
	free := FreeVars(s.Body)
	for _, v := range s.Vars {
		free.Remove(v)
	}
	return free
}

// Apply substitutes the free variables of the scheme
func (s Scheme) Apply(subst Subst) Scheme {
	return Scheme{Vars: s.Vars, Body: subst.Without(s.Vars...).Apply(s.Body)}
}

func (s Scheme) String() string {
	if s.IsMono() {
		return s.Body.String()
	}
	names := make([]string, 0, len(s.Vars))
	for _, v := range s.Vars {
		names = append(names, v.String())
	}
	return "∀" + strings.Join(names, " ") + ". " + s.Body.String()
}
