package util

func MapSlice[A, B any](slice []A, f func(A) B) []B {
	mapped := make([]B, 0, len(slice))
	for _, a := range slice {
		mapped = append(mapped, f(a))
	}
	return mapped
}

// AllOf reports whether every element of slice satisfies pred; true when slice is empty
func AllOf[A any](slice []A, pred func(A) bool) bool {
	for _, a := range slice {
		if !pred(a) {
			return false
		}
	}
	return true
}

// AnyOf reports whether some element of slice satisfies pred
func AnyOf[A any](slice []A, pred func(A) bool) bool {
	for _, a := range slice {
		if pred(a) {
			return true
		}
	}
	return false
}
