// Package env holds the persistent mapping from names to type schemes
// that constraint generation and checking thread through a program.
package env

import (
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/shapecheck/frontend/types"
	"github.com/hashicorp/go-set/v3"
)

// Env is immutable: Bind and Apply return new environments and never
// modify the receiver. The zero Env is empty.
type Env struct {
	schemes *immutable.SortedMap[string, types.Scheme]
}

func Empty() Env {
	return Env{schemes: immutable.NewSortedMap[string, types.Scheme](nil)}
}

func (e Env) entries() *immutable.SortedMap[string, types.Scheme] {
	if e.schemes == nil {
		return immutable.NewSortedMap[string, types.Scheme](nil)
	}
	return e.schemes
}

// Bind returns a copy of e where name has scheme s
func (e Env) Bind(name string, s types.Scheme) Env {
	return Env{schemes: e.entries().Set(name, s)}
}

// BindMono binds name to t without generalising
func (e Env) BindMono(name string, t types.Type) Env {
	return e.Bind(name, types.Mono(t))
}

func (e Env) Lookup(name string) (types.Scheme, bool) {
	return e.entries().Get(name)
}

func (e Env) Len() int { return e.entries().Len() }

// Names returns the bound names in sorted order
func (e Env) Names() []string {
	names := make([]string, 0, e.Len())
	itr := e.entries().Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	return names
}

// FreeVars are the variables free in any scheme of e
func (e Env) FreeVars() *set.TreeSet[*types.Var] {
	free := types.NewVarSet()
	itr := e.entries().Iterator()
	for !itr.Done() {
		_, s, _ := itr.Next()
		for v := range s.FreeVars().Items() {
			free.Insert(v)
		}
	}
	return free
}

// Generalize closes t over the variables that are not free in e
func (e Env) Generalize(t types.Type) types.Scheme {
	return types.Generalize(t, e.FreeVars())
}

// Apply substitutes the free variables of every scheme in e
func (e Env) Apply(s types.Subst) Env {
	if s.IsEmpty() {
		return e
	}
	b := immutable.NewSortedMapBuilder[string, types.Scheme](nil)
	itr := e.entries().Iterator()
	for !itr.Done() {
		name, scheme, _ := itr.Next()
		b.Set(name, scheme.Apply(s))
	}
	return Env{schemes: b.Map()}
}

func (e Env) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	itr := e.entries().Iterator()
	first := true
	for !itr.Done() {
		name, scheme, _ := itr.Next()
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(scheme.String())
	}
	sb.WriteString("}")
	return sb.String()
}
