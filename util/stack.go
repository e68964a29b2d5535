package util

import "golang.org/x/exp/slices"

// Stack is a LIFO used to track paths during depth-first traversals
type Stack[A comparable] struct {
	items []A
}

func (s *Stack[A]) Push(v A) {
	s.items = append(s.items, v)
}

func (s *Stack[A]) Pop() (ret A, ok bool) {
	if len(s.items) <= 0 {
		return ret, false
	}
	lastIndex := len(s.items) - 1
	ret = s.items[lastIndex]
	s.items = s.items[:lastIndex]
	return ret, true
}

func (s *Stack[A]) Len() int { return len(s.items) }

func (s *Stack[A]) Contains(v A) bool {
	return slices.Contains(s.items, v)
}

// Items returns the stack contents from bottom to top
func (s *Stack[A]) Items() []A {
	return slices.Clone(s.items)
}

// From returns the items from the first occurrence of v up to the top
func (s *Stack[A]) From(v A) []A {
	i := slices.Index(s.items, v)
	if i < 0 {
		return nil
	}
	return slices.Clone(s.items[i:])
}
