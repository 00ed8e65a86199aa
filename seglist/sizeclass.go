package seglist

// classBoundaries holds the upper bound (inclusive) of size classes 0-8.
// Anything larger than the last boundary falls into class 9.
var classBoundaries = [NumClasses - 1]int{64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384}

// SizeToClass maps a block size in bytes to one of the ten segregated
// size-class indices: the smallest i such that size <= 2^(6+i), for
// i in 0..8, or 9 for anything larger than 16384. This is a pure function
// with no ordering within a class — classes are bucketed, not sorted.
func SizeToClass(size int) int {
	for i, boundary := range classBoundaries {
		if size <= boundary {
			return i
		}
	}
	return NumClasses - 1
}
