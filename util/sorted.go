package util

import (
	"sort"

	"github.com/xtgo/set"
	"golang.org/x/exp/slices"
)

// SortedUnique returns a sorted copy of elems without duplicates
func SortedUnique(elems []string) []string {
	sorted := slices.Clone(elems)
	sort.Strings(sorted)
	n := set.Uniq(sort.StringSlice(sorted))
	return sorted[:n]
}

// SortedDiff returns the sorted elements of a which are not in b
func SortedDiff(a, b []string) []string {
	fst := SortedUnique(a)
	data := append(fst, SortedUnique(b)...)
	n := set.Diff(sort.StringSlice(data), len(fst))
	return data[:n]
}

// SortedUnion returns the sorted elements present in a or b
func SortedUnion(a, b []string) []string {
	fst := SortedUnique(a)
	data := append(fst, SortedUnique(b)...)
	n := set.Union(sort.StringSlice(data), len(fst))
	return data[:n]
}

// SortedInter returns the sorted elements present in both a and b
func SortedInter(a, b []string) []string {
	fst := SortedUnique(a)
	data := append(fst, SortedUnique(b)...)
	n := set.Inter(sort.StringSlice(data), len(fst))
	return data[:n]
}
