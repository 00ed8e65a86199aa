//go:build !debug_segalloc

package segalloc

// DebugValidate is a no-op unless built with the debug_segalloc tag.
func DebugValidate(v Validatable) {
}
