package segalloc

import (
	"golang.org/x/exp/constraints"
)

// AlignUp rounds value up to the nearest multiple of alignment, which must
// be a power of two.
func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// MaxOf returns the larger of a and b. It replaces the MAX() macro used
// throughout the original C allocator this package is descended from.
func MaxOf[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
