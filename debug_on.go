//go:build debug_segalloc

package segalloc

// DebugValidate calls Validate on v and panics if it returns an error. It is
// a zero-cost no-op unless the debug_segalloc build tag is present, so
// production builds never pay for the consistency scan on the hot
// allocate/free path.
func DebugValidate(v Validatable) {
	if err := v.Validate(); err != nil {
		panic(err)
	}
}
