package types

import (
	"github.com/pkg/errors"
)

var (
	ErrEmptyUnion        = errors.New("union of no alternatives")
	ErrEmptyIntersection = errors.New("intersection of no members")
)

// NewUnion flattens nested unions and removes structurally equivalent
// duplicates, keeping the first occurrence. A single alternative is
// returned as is.
func NewUnion(alts ...Type) (Type, error) {
	flat := flatten(alts, func(t Type) ([]Type, bool) {
		if u, ok := t.(*Union); ok {
			return u.Alts, true
		}
		return nil, false
	})
	switch len(flat) {
	case 0:
		return nil, ErrEmptyUnion
	case 1:
		return flat[0], nil
	default:
		return &Union{Alts: flat}, nil
	}
}

// MustUnion is NewUnion for callers that know alts is not empty
func MustUnion(alts ...Type) Type {
	u, err := NewUnion(alts...)
	if err != nil {
		panic(err)
	}
	return u
}

// NewIntersection normalises like NewUnion
func NewIntersection(members ...Type) (Type, error) {
	flat := flatten(members, func(t Type) ([]Type, bool) {
		if i, ok := t.(*Intersection); ok {
			return i.Members, true
		}
		return nil, false
	})
	switch len(flat) {
	case 0:
		return nil, ErrEmptyIntersection
	case 1:
		return flat[0], nil
	default:
		return &Intersection{Members: flat}, nil
	}
}

func MustIntersection(members ...Type) Type {
	i, err := NewIntersection(members...)
	if err != nil {
		panic(err)
	}
	return i
}

func flatten(ts []Type, nested func(Type) ([]Type, bool)) []Type {
	var flat []Type
	var add func(t Type)
	add = func(t Type) {
		if inner, ok := nested(t); ok {
			for _, i := range inner {
				add(i)
			}
			return
		}
		for _, existing := range flat {
			if Equivalent(existing, t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, t := range ts {
		add(t)
	}
	return flat
}
