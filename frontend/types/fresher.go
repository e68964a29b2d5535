package types

import "sync/atomic"

// Fresher hands out new type variables. Each checking session owns one,
// and ids are never reused within it. It is safe for concurrent use.
type Fresher struct {
	freshCount atomic.Int64
}

func NewFresher() *Fresher {
	return &Fresher{}
}

// Fresh returns a variable at the given polymorphism level
func (f *Fresher) Fresh(level int) *Var {
	return &Var{ID: int(f.freshCount.Add(1)), Level: level}
}

// FreshN returns n fresh variables at level
func (f *Fresher) FreshN(n int, level int) []*Var {
	vars := make([]*Var, 0, n)
	for range n {
		vars = append(vars, f.Fresh(level))
	}
	return vars
}

// Count is the number of variables created so far
func (f *Fresher) Count() int {
	return int(f.freshCount.Load())
}
